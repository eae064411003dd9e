package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row maps column names to cell values. A column absent from the map is
// treated as null.
type Row map[string]Value

// Cell returns the value for a column, null if the column is absent.
func (r Row) Cell(column string) Value {
	return r[column]
}

// Snapshot is an ordered capture of a table at one point in time: a column
// list in schema order and rows in the order the data source returned them.
// Snapshots are ephemeral; each read builds a fresh one.
type Snapshot struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (s Snapshot) Len() int {
	return len(s.Rows)
}

// Filter returns a snapshot containing only the rows where any cell's
// display string contains the keyword, case-insensitively. An empty keyword
// returns the snapshot unchanged. Column order is preserved; rows are
// shared, not copied.
func (s Snapshot) Filter(keyword string) Snapshot {
	if keyword == "" {
		return s
	}
	needle := strings.ToLower(keyword)
	out := Snapshot{Columns: s.Columns}
	for _, row := range s.Rows {
		for _, col := range s.Columns {
			if strings.Contains(strings.ToLower(row.Cell(col).Display()), needle) {
				out.Rows = append(out.Rows, row)
				break
			}
		}
	}
	return out
}

// TotalPages returns the number of pages at the given page size. An empty
// snapshot has zero pages.
func (s Snapshot) TotalPages(pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (len(s.Rows) + pageSize - 1) / pageSize
}

// Page returns the zero-based page of the given size. Pages beyond the data
// come back empty rather than failing.
func (s Snapshot) Page(page, pageSize int) Snapshot {
	out := Snapshot{Columns: s.Columns}
	if page < 0 || pageSize <= 0 {
		return out
	}
	start := page * pageSize
	if start >= len(s.Rows) {
		return out
	}
	end := start + pageSize
	if end > len(s.Rows) {
		end = len(s.Rows)
	}
	out.Rows = s.Rows[start:end]
	return out
}

// WriteCSV writes the snapshot as UTF-8 CSV: a header row of column names
// followed by one record per row, no index column. Null cells render empty.
func (s Snapshot) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(s.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(s.Columns))
	for _, row := range s.Rows {
		for i, col := range s.Columns {
			record[i] = row.Cell(col).Display()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

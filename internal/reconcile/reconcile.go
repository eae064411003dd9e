// Package reconcile computes the minimal set of cell-level changes between
// two snapshots of the same table page: the rows as they were served and the
// rows as they came back from the editor. Each detected change is addressed
// by the row's unique-column value so it can be applied as a single targeted
// update.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/Rajas1877/structgrid/internal/grid"
)

// ErrSnapshotMismatch is returned when the original and edited snapshots do
// not line up row for row. Comparison is positional, so equal length and
// identical row order are a strict precondition.
var ErrSnapshotMismatch = errors.New("original and edited snapshots do not match")

// CellChange is one detected edit: the pre-edit unique-column value that
// addresses the row, the column that changed, and the value after the edit.
type CellChange struct {
	Key      grid.Value
	Column   string
	NewValue grid.Value
}

// Changes compares the two snapshots row by row and column by column and
// returns every cell whose value genuinely differs.
//
// Rows are matched by position: original.Rows[i] and edited.Rows[i] are
// taken to be the same logical row. Columns iterate in the original
// snapshot's schema order, so output is deterministic: row order first,
// column order within a row. A cell that is null in both snapshots is never
// reported, regardless of how either null is represented.
//
// The key on every change is the row's unique-column value from the
// original snapshot. If the edit changed the unique column itself, the
// change is still addressed by the pre-edit key; the new key value appears
// as an ordinary CellChange for that column.
func Changes(original, edited grid.Snapshot, uniqueColumn string) ([]CellChange, error) {
	if len(original.Rows) != len(edited.Rows) {
		return nil, fmt.Errorf("%w: %d original rows vs %d edited rows",
			ErrSnapshotMismatch, len(original.Rows), len(edited.Rows))
	}

	var changes []CellChange
	for i := range original.Rows {
		origRow := original.Rows[i]
		editRow := edited.Rows[i]
		key := origRow.Cell(uniqueColumn)

		for _, col := range original.Columns {
			before := origRow.Cell(col)
			after := editRow.Cell(col)
			if before.IsNull() && after.IsNull() {
				continue
			}
			if before.Equal(after) {
				continue
			}
			changes = append(changes, CellChange{
				Key:      key,
				Column:   col,
				NewValue: after,
			})
		}
	}
	return changes, nil
}

// DistinctRows returns how many distinct rows the changes touch, counted by
// key. This is the number reported to the user after a save.
func DistinctRows(changes []CellChange) int {
	seen := make(map[string]struct{}, len(changes))
	for _, c := range changes {
		seen[c.Key.Display()] = struct{}{}
	}
	return len(seen)
}

// Package core provides the business logic for the structure table editor:
// loading filtered, paginated views of the table, reconciling edited pages
// against what was served, applying the resulting cell changes, adding
// columns, and exporting the visible page as CSV.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Rajas1877/structgrid/internal/config"
	"github.com/Rajas1877/structgrid/internal/grid"
	"github.com/Rajas1877/structgrid/internal/logging"
	"github.com/Rajas1877/structgrid/internal/reconcile"
	"github.com/Rajas1877/structgrid/internal/store"
	"github.com/VictoriaMetrics/metrics"
)

var (
	loadsTotal        = metrics.NewCounter("structure_loads_total")
	savesTotal        = metrics.NewCounter("structure_saves_total")
	cellsUpdatedTotal = metrics.NewCounter("structure_cells_updated_total")
	rowsUpdatedTotal  = metrics.NewCounter("structure_rows_updated_total")
	columnsAddedTotal = metrics.NewCounter("structure_columns_added_total")
	exportsTotal      = metrics.NewCounter("structure_exports_total")
)

// ErrBlankColumnName is returned when an add-column request carries an
// empty or whitespace-only name. The database is never touched.
var ErrBlankColumnName = errors.New("column name required")

// Service wraps the store with the editor's operations.
type Service struct {
	store *store.Store
	grid  config.GridConfig
}

// NewService creates a Service bound to a store and grid settings.
func NewService(st *store.Store, gridCfg config.GridConfig) *Service {
	return &Service{store: st, grid: gridCfg}
}

// PageView is one renderable page of the structure table: the rows on
// display plus the pagination state around them. PageSnapshot is exactly
// what the grid shows; the caller keeps it as the pre-edit snapshot a later
// save is reconciled against.
type PageView struct {
	Filter       string
	Page         int // zero-based
	TotalPages   int
	TotalRows    int
	PageSnapshot grid.Snapshot
}

// PageLabel returns the one-based "Page X of Y" indicator text. With no
// rows it reads "Page 0 of 0".
func (v *PageView) PageLabel() string {
	if v.TotalPages == 0 {
		return "Page 0 of 0"
	}
	return fmt.Sprintf("Page %d of %d", v.Page+1, v.TotalPages)
}

// HasPrev reports whether a previous page exists.
func (v *PageView) HasPrev() bool {
	return v.Page > 0
}

// HasNext reports whether a next page exists.
func (v *PageView) HasNext() bool {
	return v.Page < v.TotalPages-1
}

// LoadStructure reads the whole table fresh, applies the case-insensitive
// keyword filter across all columns, and returns the requested page.
// Out-of-range pages are clamped into the filtered result; a filter that
// matches nothing yields an empty page with zero total pages.
func (s *Service) LoadStructure(ctx context.Context, filter string, page int) (*PageView, error) {
	snap, err := s.store.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("load structure: %w", err)
	}
	loadsTotal.Inc()

	filtered := snap.Filter(filter)
	totalPages := filtered.TotalPages(s.grid.PageSize)

	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	return &PageView{
		Filter:       filter,
		Page:         page,
		TotalPages:   totalPages,
		TotalRows:    filtered.Len(),
		PageSnapshot: filtered.Page(page, s.grid.PageSize),
	}, nil
}

// SaveChanges reconciles the edited page against the page that was served
// and applies the detected cell changes in one transaction. Returns the
// number of distinct rows updated; zero with a nil error means there was
// nothing to save.
func (s *Service) SaveChanges(ctx context.Context, original, edited grid.Snapshot) (int, error) {
	changes, err := reconcile.Changes(original, edited, s.grid.UniqueColumn)
	if err != nil {
		return 0, fmt.Errorf("save changes: %w", err)
	}
	if len(changes) == 0 {
		return 0, nil
	}

	rows, err := s.store.ApplyChanges(ctx, changes)
	if err != nil {
		return 0, fmt.Errorf("save changes: %w", err)
	}

	savesTotal.Inc()
	cellsUpdatedTotal.Add(len(changes))
	rowsUpdatedTotal.Add(rows)

	logging.FromContext(ctx).Info("changes saved",
		"table", s.store.Table(),
		"cells", len(changes),
		"rows", rows,
	)
	return rows, nil
}

// AddColumn adds a TEXT column to the table. A blank name is rejected
// before any SQL is issued.
func (s *Service) AddColumn(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrBlankColumnName
	}

	if err := s.store.AddColumn(ctx, name, store.DefaultColumnType); err != nil {
		return fmt.Errorf("add column: %w", err)
	}

	columnsAddedTotal.Inc()
	logging.FromContext(ctx).Info("column added",
		"table", s.store.Table(),
		"column", name,
	)
	return nil
}

// ExportCSV writes the given page as CSV.
func (s *Service) ExportCSV(w io.Writer, page grid.Snapshot) error {
	if err := page.WriteCSV(w); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	exportsTotal.Inc()
	return nil
}

// ExportFileName returns the configured download file name.
func (s *Service) ExportFileName() string {
	return s.grid.ExportFileName
}

// UniqueColumn returns the column used to address rows for updates.
func (s *Service) UniqueColumn() string {
	return s.grid.UniqueColumn
}

// Package store is the database edge of the editor: full-table reads into a
// snapshot, transactional application of cell changes, and the add-column
// DDL. Every operation acquires a connection from the pool and releases it
// on all exit paths; nothing holds a connection between operations.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rajas1877/structgrid/internal/grid"
	"github.com/Rajas1877/structgrid/internal/reconcile"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultColumnType is the column type issued by AddColumn. The editor only
// ever adds free-form text columns.
const DefaultColumnType = "TEXT"

// Store executes all SQL against one table, addressed by the unique column.
type Store struct {
	pool         *pgxpool.Pool
	table        string
	uniqueColumn string
}

// New returns a Store bound to a pool and a target table.
func New(pool *pgxpool.Pool, table, uniqueColumn string) *Store {
	return &Store{
		pool:         pool,
		table:        table,
		uniqueColumn: uniqueColumn,
	}
}

// Table returns the configured table name.
func (s *Store) Table() string {
	return s.table
}

// UniqueColumn returns the configured unique-column name.
func (s *Store) UniqueColumn() string {
	return s.uniqueColumn
}

// ReadTable fetches the entire table into a fresh snapshot. Columns come
// back in the order the database reports them; rows in scan order. No
// filtering or pagination happens at the source.
func (s *Store) ReadTable(ctx context.Context) (grid.Snapshot, error) {
	var snap grid.Snapshot

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return snap, connectionError("read table", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, "SELECT * FROM "+quoteIdentifier(s.table))
	if err != nil {
		return snap, queryError("read table", err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	snap.Columns = make([]string, len(fds))
	for i, fd := range fds {
		snap.Columns[i] = fd.Name
	}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return grid.Snapshot{}, queryError("scan row", err)
		}
		row := make(grid.Row, len(fds))
		for i, fd := range fds {
			row[fd.Name] = fromDB(vals[i])
		}
		snap.Rows = append(snap.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return grid.Snapshot{}, queryError("read table", err)
	}

	return snap, nil
}

// ApplyChanges applies every cell change as its own parameterized UPDATE,
// all inside one transaction: either every change commits or none do. The
// return value is the number of distinct rows touched. An empty change set
// is a no-op that reports zero rows, not an error.
func (s *Store) ApplyChanges(ctx context.Context, changes []reconcile.CellChange) (int, error) {
	if len(changes) == 0 {
		return 0, nil
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, connectionError("apply changes", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, connectionError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := s.execChanges(ctx, tx, changes); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, queryError("commit", err)
	}
	return reconcile.DistinctRows(changes), nil
}

// execer is the slice of pgx.Tx the update loop needs. Narrowed so tests
// can drive the loop without a database.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// execChanges runs one UPDATE per change against the transaction.
func (s *Store) execChanges(ctx context.Context, tx execer, changes []reconcile.CellChange) error {
	for _, c := range changes {
		stmt := fmt.Sprintf(
			"UPDATE %s SET %s = $1 WHERE %s = $2",
			quoteIdentifier(s.table),
			quoteIdentifier(c.Column),
			quoteIdentifier(s.uniqueColumn),
		)
		if _, err := tx.Exec(ctx, stmt, valueArg(c.NewValue), valueArg(c.Key)); err != nil {
			return queryError(fmt.Sprintf("update %s for key %s", c.Column, c.Key.Display()), err)
		}
	}
	return nil
}

// AddColumn issues a single ALTER TABLE adding a column of the given type.
// The change is irreversible; the database is the only validator of the
// column name, and its error comes back wrapped but otherwise verbatim.
func (s *Store) AddColumn(ctx context.Context, column, colType string) error {
	if strings.TrimSpace(column) == "" {
		return fmt.Errorf("column name required")
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return connectionError("add column", err)
	}
	defer conn.Release()

	stmt := fmt.Sprintf(
		"ALTER TABLE %s ADD COLUMN %s %s",
		quoteIdentifier(s.table),
		quoteIdentifier(column),
		colType,
	)
	if _, err := conn.Exec(ctx, stmt); err != nil {
		return queryError("add column "+column, err)
	}
	return nil
}

// quoteIdentifier quotes a SQL identifier, doubling embedded quotes.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// valueArg converts a cell value to a driver argument.
func valueArg(v grid.Value) any {
	switch v.Kind() {
	case grid.KindString:
		return v.Str()
	case grid.KindNumber:
		return v.Num()
	case grid.KindBool:
		return v.Truth()
	}
	return nil
}

// fromDB converts a driver scalar to a cell value, flattening the pgtype
// wrappers that pgx returns for numeric and temporal columns.
func fromDB(raw any) grid.Value {
	switch x := raw.(type) {
	case pgtype.Numeric:
		if !x.Valid {
			return grid.Null()
		}
		if f, err := x.Float64Value(); err == nil && f.Valid {
			return grid.Number(f.Float64)
		}
		return grid.Null()
	case time.Time:
		return grid.String(x.Format(time.RFC3339))
	}
	return grid.FromAny(raw)
}

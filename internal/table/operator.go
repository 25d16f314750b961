package table

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Querier is the borrowed handle every operation runs on. *sql.Conn,
// *sql.Tx and *sql.DB all satisfy it; savepoints require that successive
// calls reach the same connection, which store.Scope guarantees.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Column is a reserved column added to every table the operator creates and
// hidden from its data columns.
type Column struct {
	Name string
	Decl string // e.g. "INTEGER NOT NULL DEFAULT 0"
}

// Operator performs table operations. It is stateless between calls.
type Operator struct {
	reserved []Column
	logger   *slog.Logger
}

// Option configures an Operator.
type Option func(*Operator)

// WithLogger sets the logger used for mutation events.
func WithLogger(l *slog.Logger) Option {
	return func(o *Operator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithReservedColumn declares a column that tables created by this operator
// carry after their data columns and that is never reported as data.
func WithReservedColumn(name, decl string) Option {
	return func(o *Operator) {
		o.reserved = append(o.reserved, Column{Name: name, Decl: decl})
	}
}

// New creates an Operator.
func New(opts ...Option) *Operator {
	o := &Operator{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Logger returns the operator's logger.
func (o *Operator) Logger() *slog.Logger {
	return o.logger
}

// ListTables returns the user tables in the store's native (creation) order.
func (o *Operator) ListTables(ctx context.Context, q Querier) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list tables: scan: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

// TableExists reports whether a table with exactly this name exists.
// The match is case-sensitive.
func (o *Operator) TableExists(ctx context.Context, q Querier, name string) (bool, error) {
	names, err := o.ListTables(ctx, q)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// AssertTableExists returns a NOT_FOUND error unless the table exists.
func (o *Operator) AssertTableExists(ctx context.Context, q Querier, name string) error {
	ok, err := o.TableExists(ctx, q, name)
	if err != nil {
		return err
	}
	if !ok {
		return NewTableNotFound(name)
	}
	return nil
}

// AssertRowExists returns a NOT_FOUND error unless the table exists and has
// a row with this id.
func (o *Operator) AssertRowExists(ctx context.Context, q Querier, name string, id int) error {
	if err := o.AssertTableExists(ctx, q, name); err != nil {
		return err
	}
	return o.assertRow(ctx, q, name, id)
}

func (o *Operator) assertRow(ctx context.Context, q Querier, name string, id int) error {
	var n int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+QuoteIdent(name)+" WHERE "+QuoteIdent(IDColumn)+" = ?", id,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("check row %d in %s: %w", id, name, err)
	}
	if n == 0 {
		return NewRowNotFound(name, id)
	}
	return nil
}

// Columns returns the table's data columns in creation order, with "id"
// first when includeID is set. Reserved columns are never listed.
func (o *Operator) Columns(ctx context.Context, q Querier, name string, includeID bool) ([]string, error) {
	if err := o.AssertTableExists(ctx, q, name); err != nil {
		return nil, err
	}
	all, err := o.tableColumns(ctx, q, name)
	if err != nil {
		return nil, err
	}

	var cols []string
	if includeID {
		cols = append(cols, IDColumn)
	}
	for _, c := range all {
		if !o.isReserved(c) {
			cols = append(cols, c)
		}
	}
	return cols, nil
}

// HasColumn reports whether the table physically has the named column,
// reserved or not.
func (o *Operator) HasColumn(ctx context.Context, q Querier, name, col string) (bool, error) {
	all, err := o.tableColumns(ctx, q, name)
	if err != nil {
		return false, err
	}
	for _, c := range all {
		if strings.EqualFold(c, col) {
			return true, nil
		}
	}
	return false, nil
}

// tableColumns returns every column except id, reserved ones included.
func (o *Operator) tableColumns(ctx context.Context, q Querier, name string) ([]string, error) {
	rows, err := q.QueryContext(ctx, "SELECT name FROM pragma_table_info(?) ORDER BY cid", name)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", name, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("columns of %s: scan: %w", name, err)
		}
		if c == IDColumn {
			continue
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("columns of %s: %w", name, err)
	}
	return cols, nil
}

// RowCount returns the number of rows in the table.
func (o *Operator) RowCount(ctx context.Context, q Querier, name string) (int, error) {
	if err := o.AssertTableExists(ctx, q, name); err != nil {
		return 0, err
	}
	var n int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+QuoteIdent(name)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", name, err)
	}
	return n, nil
}

// UniqueName returns the first name of the form <stem>_<n>, n = 0, 1, 2...,
// not used by any table.
func (o *Operator) UniqueName(ctx context.Context, q Querier, stem string) (string, error) {
	names, err := o.ListTables(ctx, q)
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}
	for i := 0; ; i++ {
		candidate := fmt.Sprintf("%s_%d", stem, i)
		if !taken[candidate] {
			return candidate, nil
		}
	}
}

// WithSavepoint runs fn inside a named savepoint on q. If fn fails, every
// write it made is rolled back and fn's error is returned.
func (o *Operator) WithSavepoint(ctx context.Context, q Querier, label string, fn func() error) error {
	sp := QuoteIdent("tabula_" + label)
	if _, err := q.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return fmt.Errorf("%s: savepoint: %w", label, err)
	}
	if err := fn(); err != nil {
		_, _ = q.ExecContext(ctx, "ROLLBACK TO "+sp)
		_, _ = q.ExecContext(ctx, "RELEASE "+sp)
		return err
	}
	if _, err := q.ExecContext(ctx, "RELEASE "+sp); err != nil {
		return fmt.Errorf("%s: release savepoint: %w", label, err)
	}
	return nil
}

package table

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tabula/internal/rangespec"
)

// CreateTable creates a table with the given data columns and inserts rows,
// which receive ids 1..len(rows). Reserved columns follow the data columns.
func (o *Operator) CreateTable(ctx context.Context, q Querier, name string, cols []string, rows ...[]string) error {
	if err := validateTableName(name); err != nil {
		return err
	}
	if err := o.validateColumns(cols); err != nil {
		return err
	}
	exists, err := o.TableExists(ctx, q, name)
	if err != nil {
		return err
	}
	if exists {
		return newConflict(name)
	}
	for _, r := range rows {
		if len(r) != len(cols) {
			return newRowMismatch(quotedValues(r), len(r), name, len(cols))
		}
	}

	decls := []string{QuoteIdent(IDColumn) + " INTEGER PRIMARY KEY"}
	for _, c := range cols {
		decls = append(decls, QuoteIdent(c)+" TEXT")
	}
	for _, r := range o.reserved {
		decls = append(decls, QuoteIdent(r.Name)+" "+r.Decl)
	}

	err = o.WithSavepoint(ctx, q, "create_table", func() error {
		stmt := fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(name), strings.Join(decls, ", "))
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: %w", name, err)
		}
		return o.insert(ctx, q, name, cols, rows)
	})
	if err != nil {
		return err
	}

	o.logger.Debug("table created", "table", name, "columns", len(cols), "rows", len(rows))
	return nil
}

// InsertRows appends rows; ids continue after the current last row. Nothing
// is written unless every row has exactly one value per data column.
func (o *Operator) InsertRows(ctx context.Context, q Querier, name string, rows ...[]string) error {
	cols, err := o.Columns(ctx, q, name, false)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if len(r) != len(cols) {
			return newRowMismatch(quotedValues(r), len(r), name, len(cols))
		}
	}

	err = o.WithSavepoint(ctx, q, "insert_rows", func() error {
		return o.insert(ctx, q, name, cols, rows)
	})
	if err != nil {
		return err
	}

	o.logger.Debug("rows inserted", "table", name, "rows", len(rows))
	return nil
}

func (o *Operator) insert(ctx context.Context, q Querier, name string, cols []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		QuoteIdent(name), quoteAll(cols), rangespec.Placeholders(len(cols)))
	for _, r := range rows {
		if _, err := q.ExecContext(ctx, stmt, normalized(r)...); err != nil {
			return fmt.Errorf("insert into %s: %w", name, err)
		}
	}
	return nil
}

// UpdateRow overwrites the data values of an existing row. The id is kept.
func (o *Operator) UpdateRow(ctx context.Context, q Querier, name string, id int, values []string) error {
	if err := o.AssertRowExists(ctx, q, name, id); err != nil {
		return err
	}
	cols, err := o.Columns(ctx, q, name, false)
	if err != nil {
		return err
	}
	if len(values) != len(cols) {
		return newRowMismatch(listLiteral(values), len(values), name, len(cols))
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = QuoteIdent(c) + " = ?"
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		QuoteIdent(name), strings.Join(sets, ", "), QuoteIdent(IDColumn))
	args := append(normalized(values), id)
	if _, err := q.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("update %s row %d: %w", name, id, err)
	}

	o.logger.Debug("row updated", "table", name, "id", id)
	return nil
}

// RemoveRow deletes one row and renumbers the rows after it.
func (o *Operator) RemoveRow(ctx context.Context, q Querier, name string, id int) error {
	if err := o.AssertRowExists(ctx, q, name, id); err != nil {
		return err
	}
	return o.deleteIDs(ctx, q, name, []int{id})
}

// RemoveRows deletes every row listed by the range spec, then renumbers the
// remaining rows. If any listed row is missing nothing is deleted.
func (o *Operator) RemoveRows(ctx context.Context, q Querier, name, spec string) error {
	ids, err := o.rowIDs(ctx, q, name, spec)
	if err != nil {
		return err
	}
	return o.deleteIDs(ctx, q, name, ids)
}

func (o *Operator) deleteIDs(ctx context.Context, q Querier, name string, ids []int) error {
	err := o.WithSavepoint(ctx, q, "remove_rows", func() error {
		stmt := fmt.Sprintf("DELETE FROM %s WHERE %s IN %s",
			QuoteIdent(name), QuoteIdent(IDColumn), rangespec.Format(ids))
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("delete from %s: %w", name, err)
		}
		return o.rebuild(ctx, q, name, QuoteIdent(IDColumn))
	})
	if err != nil {
		return err
	}

	o.logger.Debug("rows removed", "table", name, "rows", len(ids))
	return nil
}

// RemoveTable drops the table.
func (o *Operator) RemoveTable(ctx context.Context, q Querier, name string) error {
	if err := o.AssertTableExists(ctx, q, name); err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, "DROP TABLE "+QuoteIdent(name)); err != nil {
		return fmt.Errorf("drop table %s: %w", name, err)
	}
	o.logger.Debug("table removed", "table", name)
	return nil
}

func normalized(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = norm.NFC.String(v)
	}
	return args
}

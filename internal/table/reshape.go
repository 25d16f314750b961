package table

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// RenameTable renames a table. Data, columns and ids are carried over and
// the old name ceases to exist. Renaming onto an existing table is a conflict.
func (o *Operator) RenameTable(ctx context.Context, q Querier, from, to string) error {
	if err := o.AssertTableExists(ctx, q, from); err != nil {
		return err
	}
	if err := o.assertFree(ctx, q, to); err != nil {
		return err
	}

	stmt := fmt.Sprintf("ALTER TABLE %s RENAME TO %s", QuoteIdent(from), QuoteIdent(to))
	if _, err := q.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}

	o.logger.Debug("table renamed", "from", from, "to", to)
	return nil
}

// CopyTable creates table to with the column definitions and values of
// table from. The copy gets a fresh id sequence: its rows are numbered 1..n
// in the source's id order.
func (o *Operator) CopyTable(ctx context.Context, q Querier, from, to string) error {
	if err := o.AssertTableExists(ctx, q, from); err != nil {
		return err
	}
	if err := o.assertFree(ctx, q, to); err != nil {
		return err
	}

	decls, err := o.columnDecls(ctx, q, from)
	if err != nil {
		return err
	}
	cols, err := o.tableColumns(ctx, q, from)
	if err != nil {
		return err
	}

	err = o.WithSavepoint(ctx, q, "copy_table", func() error {
		create := fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(to), strings.Join(decls, ", "))
		if _, err := q.ExecContext(ctx, create); err != nil {
			return fmt.Errorf("copy %s to %s: %w", from, to, err)
		}
		fill := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s ORDER BY %s",
			QuoteIdent(to), quoteAll(cols), quoteAll(cols), QuoteIdent(from), QuoteIdent(IDColumn))
		if _, err := q.ExecContext(ctx, fill); err != nil {
			return fmt.Errorf("copy %s to %s: %w", from, to, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	o.logger.Debug("table copied", "from", from, "to", to)
	return nil
}

// MergeTables appends src's rows to dst. dst keeps its rows first; src's
// rows follow in id order with continuing ids. src is left untouched.
func (o *Operator) MergeTables(ctx context.Context, q Querier, src, dst string) error {
	srcCols, err := o.Columns(ctx, q, src, false)
	if err != nil {
		return err
	}
	dstCols, err := o.Columns(ctx, q, dst, false)
	if err != nil {
		return err
	}
	if len(srcCols) != len(dstCols) {
		return newMergeMismatch(src, dst, srcCols, dstCols)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s ORDER BY %s",
		QuoteIdent(dst), quoteAll(dstCols), quoteAll(srcCols), QuoteIdent(src), QuoteIdent(IDColumn))
	if _, err := q.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("merge %s into %s: %w", src, dst, err)
	}

	o.logger.Debug("tables merged", "src", src, "dst", dst)
	return nil
}

// SortTable physically reorders the table by a data column (1-based) and
// renumbers ids 1..n in the new order.
func (o *Operator) SortTable(ctx context.Context, q Querier, name string, col int) error {
	cols, err := o.Columns(ctx, q, name, false)
	if err != nil {
		return err
	}
	if col < 1 || col > len(cols) {
		return NewColumnNotFound(name, col)
	}

	order := QuoteIdent(cols[col-1]) + ", " + QuoteIdent(IDColumn)
	err = o.WithSavepoint(ctx, q, "sort_table", func() error {
		return o.rebuild(ctx, q, name, order)
	})
	if err != nil {
		return err
	}

	o.logger.Debug("table sorted", "table", name, "column", cols[col-1])
	return nil
}

// rebuild rewrites the table's rows in the given order so that ids run
// 1..n. The table keeps its schema and its place in the catalog. Must run
// inside a savepoint.
func (o *Operator) rebuild(ctx context.Context, q Querier, name, orderBy string) error {
	all, err := o.tableColumns(ctx, q, name)
	if err != nil {
		return err
	}
	scratch, err := o.UniqueName(ctx, q, name+"_copy")
	if err != nil {
		return err
	}
	cols := quoteAll(all)

	stmts := []string{
		fmt.Sprintf("CREATE TABLE %s AS SELECT %s FROM %s ORDER BY %s", QuoteIdent(scratch), cols, QuoteIdent(name), orderBy),
		fmt.Sprintf("DELETE FROM %s", QuoteIdent(name)),
		fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s ORDER BY rowid", QuoteIdent(name), cols, cols, QuoteIdent(scratch)),
		fmt.Sprintf("DROP TABLE %s", QuoteIdent(scratch)),
	}
	for _, stmt := range stmts {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rebuild %s: %w", name, err)
		}
	}
	return nil
}

// assertFree validates name and fails with a conflict if it is taken.
func (o *Operator) assertFree(ctx context.Context, q Querier, name string) error {
	if err := validateTableName(name); err != nil {
		return err
	}
	exists, err := o.TableExists(ctx, q, name)
	if err != nil {
		return err
	}
	if exists {
		return newConflict(name)
	}
	return nil
}

// columnDecls reconstructs the column definitions of a table, id included.
func (o *Operator) columnDecls(ctx context.Context, q Querier, name string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, name)
	if err != nil {
		return nil, fmt.Errorf("schema of %s: %w", name, err)
	}
	defer rows.Close()

	var decls []string
	for rows.Next() {
		var (
			col, typ string
			notNull  bool
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&col, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("schema of %s: scan: %w", name, err)
		}

		decl := QuoteIdent(col)
		if typ != "" {
			decl += " " + typ
		}
		if pk > 0 {
			decl += " PRIMARY KEY"
		}
		if notNull {
			decl += " NOT NULL"
		}
		if dflt.Valid {
			decl += " DEFAULT " + dflt.String
		}
		decls = append(decls, decl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schema of %s: %w", name, err)
	}
	return decls, nil
}

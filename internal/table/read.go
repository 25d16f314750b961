package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/roach88/tabula/internal/rangespec"
)

// ReadOptions controls GetTable.
type ReadOptions struct {
	// IncludeHeaders prepends a row of column names, "id" first.
	IncludeHeaders bool

	// SortBy orders rows by the given data column (1 = first data column)
	// instead of by id. Zero keeps id order.
	SortBy int
}

// GetTable returns every row of the table, each rendered as its id (as text)
// followed by its data values.
func (o *Operator) GetTable(ctx context.Context, q Querier, name string, opts ReadOptions) ([][]string, error) {
	cols, err := o.Columns(ctx, q, name, false)
	if err != nil {
		return nil, err
	}

	order := QuoteIdent(IDColumn)
	if opts.SortBy != 0 {
		if opts.SortBy < 0 || opts.SortBy > len(cols) {
			return nil, NewColumnNotFound(name, opts.SortBy)
		}
		order = QuoteIdent(cols[opts.SortBy-1]) + ", " + QuoteIdent(IDColumn)
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s",
		QuoteIdent(IDColumn), quoteAll(cols), QuoteIdent(name), order)
	rows, err := o.selectRows(ctx, q, name, len(cols), query)
	if err != nil {
		return nil, err
	}

	if opts.IncludeHeaders {
		header := append([]string{IDColumn}, cols...)
		rows = append([][]string{header}, rows...)
	}
	return rows, nil
}

// GetRows returns the rows whose ids are listed by the range spec, in the
// order the range lists them. Every id must exist.
func (o *Operator) GetRows(ctx context.Context, q Querier, name, spec string) ([][]string, error) {
	ids, err := o.rowIDs(ctx, q, name, spec)
	if err != nil {
		return nil, err
	}
	cols, err := o.Columns(ctx, q, name, false)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s IN %s ORDER BY %s",
		QuoteIdent(IDColumn), quoteAll(cols), QuoteIdent(name),
		QuoteIdent(IDColumn), rangespec.Format(ids), QuoteIdent(IDColumn))
	found, err := o.selectRows(ctx, q, name, len(cols), query)
	if err != nil {
		return nil, err
	}

	byID := make(map[string][]string, len(found))
	for _, r := range found {
		byID[r[0]] = r
	}
	out := make([][]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[strconv.Itoa(id)])
	}
	return out, nil
}

// TableToText renders the whole table, headers included, as a text grid.
// Tables with equal columns and rows render identically.
func (o *Operator) TableToText(ctx context.Context, q Querier, name string) (string, error) {
	rows, err := o.GetTable(ctx, q, name, ReadOptions{IncludeHeaders: true})
	if err != nil {
		return "", err
	}
	return RenderText(rows), nil
}

// RenderText lays out rows as a light box-drawn grid. The first row is the
// header.
func RenderText(rows [][]string) string {
	t := prettytable.NewWriter()
	t.SetStyle(prettytable.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	for i, r := range rows {
		row := make(prettytable.Row, len(r))
		for j, v := range r {
			row[j] = v
		}
		if i == 0 {
			t.AppendHeader(row)
			continue
		}
		t.AppendRow(row)
	}
	return t.Render()
}

// selectRows runs query and returns id + ncols values per row, as text.
func (o *Operator) selectRows(ctx context.Context, q Querier, name string, ncols int, query string) ([][]string, error) {
	rs, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defer rs.Close()

	var out [][]string
	for rs.Next() {
		var id int64
		vals := make([]sql.NullString, ncols)
		dest := make([]any, 0, ncols+1)
		dest = append(dest, &id)
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, fmt.Errorf("read %s: scan: %w", name, err)
		}

		row := make([]string, 0, ncols+1)
		row = append(row, strconv.FormatInt(id, 10))
		for _, v := range vals {
			row = append(row, v.String)
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return out, nil
}

// rowIDs expands spec against the table's dense ids 1..n. The first listed
// id past n is reported as a missing row.
func (o *Operator) rowIDs(ctx context.Context, q Querier, name, spec string) ([]int, error) {
	if err := rangespec.Validate(spec); err != nil {
		return nil, invalidRange(name, err)
	}
	n, err := o.RowCount(ctx, q, name)
	if err != nil {
		return nil, err
	}

	ids, err := rangespec.ParseWithin(spec, n)
	var oor *rangespec.OutOfRangeError
	if errors.As(err, &oor) {
		return nil, NewRowNotFound(name, oor.ID)
	}
	if err != nil {
		return nil, invalidRange(name, err)
	}
	return ids, nil
}

func invalidRange(name string, err error) *Error {
	return &Error{Code: ErrCodeInvalidRange, Message: err.Error(), Table: name, Err: err}
}

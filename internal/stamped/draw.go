package stamped

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tabula/internal/table"
)

// DrawRows returns count distinct rows' data values, without id, and stamps
// each drawn row with a fresh tick in draw order.
//
// With oldestPrevail the least recently drawn rows win deterministically:
// unstamped rows first, then by ascending tick, ties by id. Otherwise
// unstamped rows come first in random order, followed by stamped rows
// oldest first.
func (o *Operator) DrawRows(ctx context.Context, q table.Querier, name string, count int, oldestPrevail bool) ([][]string, error) {
	if err := o.assertStamped(ctx, q, name); err != nil {
		return nil, err
	}
	total, err := o.RowCount(ctx, q, name)
	if err != nil {
		return nil, err
	}
	if count > total {
		return nil, table.NewCapacityError(name, count, total)
	}
	if count <= 0 {
		return [][]string{}, nil
	}
	cols, err := o.Columns(ctx, q, name, false)
	if err != nil {
		return nil, err
	}

	ts, id := table.QuoteIdent(Column), table.QuoteIdent(table.IDColumn)
	order := fmt.Sprintf("%s ASC, %s ASC", ts, id)
	if !oldestPrevail {
		order = fmt.Sprintf("%s != 0, CASE WHEN %s = 0 THEN random() ELSE %s END, %s", ts, ts, ts, id)
	}

	selectCols := id
	for _, c := range cols {
		selectCols += ", " + table.QuoteIdent(c)
	}
	stmt := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT ?",
		selectCols, table.QuoteIdent(name), order)

	ids, drawn, err := scanDraw(ctx, q, stmt, count, len(cols))
	if err != nil {
		return nil, fmt.Errorf("draw from %s: %w", name, err)
	}

	clock, err := o.clockFor(ctx, q, name)
	if err != nil {
		return nil, err
	}
	err = o.WithSavepoint(ctx, q, "draw_rows", func() error {
		for _, rowID := range ids {
			if err := o.stamp(ctx, q, name, rowID, clock.Next()); err != nil {
				return err
			}
		}
		return o.decayStamps(ctx, q, name)
	})
	if err != nil {
		return nil, err
	}

	o.log.Debug("rows drawn", "table", name, "count", count, "oldest_prevail", oldestPrevail)
	return drawn, nil
}

// decayStamps unmarks all but the decay most recently stamped rows.
func (o *Operator) decayStamps(ctx context.Context, q table.Querier, name string) error {
	if o.decay <= 0 {
		return nil
	}
	ts := table.QuoteIdent(Column)
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s != 0 ORDER BY %s DESC LIMIT 1 OFFSET ?",
		ts, table.QuoteIdent(name), ts, ts)

	var tick int64
	err := q.QueryRowContext(ctx, stmt, o.decay).Scan(&tick)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("decay %s: %w", name, err)
	}
	return o.resetThrough(ctx, q, name, tick)
}

func scanDraw(ctx context.Context, q table.Querier, stmt string, count, width int) ([]int, [][]string, error) {
	rows, err := q.QueryContext(ctx, stmt, count)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		ids   []int
		drawn [][]string
	)
	for rows.Next() {
		var rowID int
		vals := make([]sql.NullString, width)
		dest := make([]any, 0, width+1)
		dest = append(dest, &rowID)
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, err
		}
		out := make([]string, width)
		for i, v := range vals {
			out[i] = v.String
		}
		ids = append(ids, rowID)
		drawn = append(drawn, out)
	}
	return ids, drawn, rows.Err()
}

package stamped

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/tabula/internal/table"
)

// Column is the reserved column holding each row's tick.
const Column = "timestamp"

// ColumnDecl is the declaration used when creating timestamped tables.
const ColumnDecl = "INTEGER NOT NULL DEFAULT 0"

// Operator is a table.Operator whose tables carry a hidden timestamp
// column. Every table operation is available with the same guards and
// messages.
type Operator struct {
	*table.Operator

	clock Clock
	decay int
	log   *slog.Logger
}

// Option configures an Operator.
type Option func(*config)

type config struct {
	logger *slog.Logger
	clock  Clock
	decay  int
}

// WithLogger sets the logger shared with the embedded table operator.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithDecayThreshold keeps at most n rows stamped after each draw. 0
// disables decay.
func WithDecayThreshold(n int) Option {
	return func(c *config) { c.decay = n }
}

// WithClock injects the tick source. Without it, ticks resume from the
// table's highest stored tick on every call. See Advancer.
func WithClock(clock Clock) Option {
	return func(c *config) { c.clock = clock }
}

// New creates a timestamped Operator.
func New(opts ...Option) *Operator {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.decay < 0 {
		cfg.decay = 0
	}

	base := table.New(
		table.WithLogger(cfg.logger),
		table.WithReservedColumn(Column, ColumnDecl),
	)
	return &Operator{
		Operator: base,
		clock:    cfg.clock,
		decay:    cfg.decay,
		log:      base.Logger(),
	}
}

// DecayThreshold returns the configured threshold, 0 when disabled.
func (o *Operator) DecayThreshold() int {
	return o.decay
}

// Stamp sets the row's timestamp to a fresh tick and returns the tick.
func (o *Operator) Stamp(ctx context.Context, q table.Querier, name string, id int) (int64, error) {
	if err := o.assertStamped(ctx, q, name); err != nil {
		return 0, err
	}
	if err := o.AssertRowExists(ctx, q, name, id); err != nil {
		return 0, err
	}
	clock, err := o.clockFor(ctx, q, name)
	if err != nil {
		return 0, err
	}
	tick := clock.Next()
	if err := o.stamp(ctx, q, name, id, tick); err != nil {
		return 0, err
	}
	return tick, nil
}

func (o *Operator) stamp(ctx context.Context, q table.Querier, name string, id int, tick int64) error {
	stmt := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?",
		table.QuoteIdent(name), table.QuoteIdent(Column), table.QuoteIdent(table.IDColumn))
	if _, err := q.ExecContext(ctx, stmt, tick, id); err != nil {
		return fmt.Errorf("stamp %s row %d: %w", name, id, err)
	}
	return nil
}

// Reset unmarks the row and every row stamped at or before it. Resetting an
// unstamped row changes nothing.
func (o *Operator) Reset(ctx context.Context, q table.Querier, name string, id int) error {
	if err := o.assertStamped(ctx, q, name); err != nil {
		return err
	}
	if err := o.AssertRowExists(ctx, q, name, id); err != nil {
		return err
	}

	var tick int64
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
		table.QuoteIdent(Column), table.QuoteIdent(name), table.QuoteIdent(table.IDColumn))
	if err := q.QueryRowContext(ctx, stmt, id).Scan(&tick); err != nil {
		return fmt.Errorf("read tick of %s row %d: %w", name, id, err)
	}
	return o.resetThrough(ctx, q, name, tick)
}

// resetThrough zeroes every stamp in (0, tick].
func (o *Operator) resetThrough(ctx context.Context, q table.Querier, name string, tick int64) error {
	col := table.QuoteIdent(Column)
	stmt := fmt.Sprintf("UPDATE %s SET %s = 0 WHERE %s > 0 AND %s <= ?",
		table.QuoteIdent(name), col, col, col)
	res, err := q.ExecContext(ctx, stmt, tick)
	if err != nil {
		return fmt.Errorf("reset %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		o.log.Debug("stamps reset", "table", name, "through", tick, "rows", n)
	}
	return nil
}

// FullReset unmarks every row of the table.
func (o *Operator) FullReset(ctx context.Context, q table.Querier, name string) error {
	if err := o.assertStamped(ctx, q, name); err != nil {
		return err
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s = 0", table.QuoteIdent(name), table.QuoteIdent(Column))
	if _, err := q.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("full reset %s: %w", name, err)
	}
	o.log.Debug("stamps cleared", "table", name)
	return nil
}

// StampedCount returns how many rows carry a non-zero tick.
func (o *Operator) StampedCount(ctx context.Context, q table.Querier, name string) (int, error) {
	if err := o.assertStamped(ctx, q, name); err != nil {
		return 0, err
	}
	var n int
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s != 0",
		table.QuoteIdent(name), table.QuoteIdent(Column))
	if err := q.QueryRowContext(ctx, stmt).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stamps of %s: %w", name, err)
	}
	return n, nil
}

// assertStamped checks the table exists and has the timestamp column.
func (o *Operator) assertStamped(ctx context.Context, q table.Querier, name string) error {
	if err := o.AssertTableExists(ctx, q, name); err != nil {
		return err
	}
	ok, err := o.HasColumn(ctx, q, name, Column)
	if err != nil {
		return err
	}
	if !ok {
		return &table.Error{
			Code:    table.ErrCodeNotFound,
			Message: fmt.Sprintf("cannot find a %s column in table %q", Column, name),
			Table:   name,
		}
	}
	return nil
}

// clockFor returns the injected clock, advanced past the table's highest
// tick when it can be, or a fresh clock resuming after that tick.
func (o *Operator) clockFor(ctx context.Context, q table.Querier, name string) (Clock, error) {
	var top int64
	stmt := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s",
		table.QuoteIdent(Column), table.QuoteIdent(name))
	if err := q.QueryRowContext(ctx, stmt).Scan(&top); err != nil {
		return nil, fmt.Errorf("latest tick of %s: %w", name, err)
	}
	if o.clock == nil {
		return NewClockAt(top), nil
	}
	if a, ok := o.clock.(Advancer); ok {
		a.AdvanceTo(top)
	}
	return o.clock, nil
}

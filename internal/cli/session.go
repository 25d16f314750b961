package cli

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/roach88/tabula/internal/stamped"
	"github.com/roach88/tabula/internal/store"
	"github.com/roach88/tabula/internal/table"
)

// session is what a command body works with: the scope's cursor and the
// operators configured for this invocation.
type session struct {
	cur *sql.Conn

	// tables runs plain table operations. With --timestamped it is the
	// table operator embedded in stamped, so new tables get the column.
	tables  *table.Operator
	stamped *stamped.Operator
}

// withSession opens the configured store, runs fn and commits on the way out.
func (o *RootOptions) withSession(ctx context.Context, fn func(s *session) error) error {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var storeOpts []store.Option
	storeOpts = append(storeOpts, store.WithLogger(logger))
	if o.DryRun {
		storeOpts = append(storeOpts, store.WithScratchCopy())
	}

	ts := stamped.New(
		stamped.WithLogger(logger),
		stamped.WithDecayThreshold(o.DecayThreshold),
	)
	tables := table.New(table.WithLogger(logger))
	if o.Timestamped {
		tables = ts.Operator
	}

	return store.With(ctx, o.DB, func(cur *sql.Conn) error {
		return fn(&session{cur: cur, tables: tables, stamped: ts})
	}, storeOpts...)
}

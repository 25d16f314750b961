package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mattn/go-sqlite3"
)

// Memory opens an ephemeral in-memory database.
const Memory = ":memory:"

// Scope holds one connection to the store and the transaction running on it.
type Scope struct {
	db      *sql.DB
	conn    *sql.Conn
	path    string
	scratch string
	logger  *slog.Logger
	closed  bool
}

type options struct {
	scratch bool
	logger  *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithScratchCopy makes the scope operate on a temporary duplicate of the
// database. The duplicate is deleted on Close; the original is never written.
func WithScratchCopy() Option {
	return func(o *options) { o.scratch = true }
}

// WithLogger sets the logger used for open/close events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Open opens (creating if needed) the SQLite database at path and begins
// the scope's transaction.
func Open(ctx context.Context, path string, opts ...Option) (*Scope, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	target := path
	var scratch string
	if o.scratch && path != Memory {
		var err error
		scratch, err = scratchCopy(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to copy database: %w", err)
		}
		target = scratch
	}

	db, err := sql.Open("sqlite3", target)
	if err != nil {
		removeScratch(scratch)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, and :memory: databases
	// exist per connection, so everything goes through a single one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		removeScratch(scratch)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyPragmas(ctx, conn); err != nil {
		conn.Close()
		db.Close()
		removeScratch(scratch)
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "BEGIN"); err != nil {
		conn.Close()
		db.Close()
		removeScratch(scratch)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	o.logger.Debug("store opened", "path", path, "scratch", scratch)
	return &Scope{
		db:      db,
		conn:    conn,
		path:    path,
		scratch: scratch,
		logger:  o.logger,
	}, nil
}

// With opens a scope, runs fn with its cursor and closes the scope whatever
// happens in fn. Pending writes are committed on every exit path; a panic in
// fn is re-raised once the scope is closed.
func With(ctx context.Context, path string, fn func(cur *sql.Conn) error, opts ...Option) (err error) {
	s, err := Open(ctx, path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(s.Cursor())
}

// Cursor returns the scope's connection. It is borrowed: callers must not
// close it, and it stops working once the scope is closed.
func (s *Scope) Cursor() *sql.Conn {
	return s.conn
}

// Path returns the path the scope was opened with.
func (s *Scope) Path() string {
	return s.path
}

// ScratchPath returns the scratch duplicate in use, or "" outside scratch mode.
func (s *Scope) ScratchPath() string {
	return s.scratch
}

// Close commits pending writes and closes the connection and the pool.
// Safe to call more than once.
func (s *Scope) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	ctx := context.Background()

	inTx, err := inTransaction(ctx, s.conn)
	if err != nil {
		errs = append(errs, err)
	}
	if inTx {
		if _, err := s.conn.ExecContext(ctx, "COMMIT"); err != nil {
			errs = append(errs, fmt.Errorf("commit: %w", err))
		}
	}
	if err := s.conn.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close connection: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	removeScratch(s.scratch)

	s.logger.Debug("store closed", "path", s.path)
	return errors.Join(errs...)
}

// inTransaction reports whether the connection has an open transaction.
// Callers may have committed through the cursor themselves.
func inTransaction(ctx context.Context, conn *sql.Conn) (bool, error) {
	var inTx bool
	err := conn.Raw(func(driverConn any) error {
		c, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		inTx = !c.AutoCommit()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("inspect transaction state: %w", err)
	}
	return inTx, nil
}

// applyPragmas sets required SQLite configuration. Must run outside a
// transaction: foreign_keys is a no-op inside one.
func applyPragmas(ctx context.Context, conn *sql.Conn) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

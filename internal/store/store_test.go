package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, path, table string) int {
	t.Helper()
	var n int
	err := With(context.Background(), path, func(cur *sql.Conn) error {
		return cur.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n)
	})
	require.NoError(t, err)
	return n
}

func seed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()
	err := With(ctx, path, func(cur *sql.Conn) error {
		if _, err := cur.ExecContext(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)"); err != nil {
			return err
		}
		_, err := cur.ExecContext(ctx, "INSERT INTO t (v) VALUES ('a'), ('b')")
		return err
	})
	require.NoError(t, err)
	return path
}

func TestWith_ClosesConnection(t *testing.T) {
	ctx := context.Background()
	var cursor *sql.Conn

	err := With(ctx, Memory, func(cur *sql.Conn) error {
		cursor = cur
		_, err := cur.ExecContext(ctx, "CREATE TABLE test1 (id INTEGER PRIMARY KEY, col1 INTEGER, col2 INTEGER)")
		return err
	})
	require.NoError(t, err)

	// Out of the block the connection is closed, not only committed.
	_, err = cursor.ExecContext(ctx, "SELECT 1 FROM test1")
	require.ErrorIs(t, err, sql.ErrConnDone)

	err = cursor.QueryRowContext(ctx, "SELECT 1").Scan(new(int))
	require.ErrorIs(t, err, sql.ErrConnDone)
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
	assert.Equal(t, path, s.Path())
	assert.Empty(t, s.ScratchPath())
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(context.Background(), "/nonexistent/dir/test.db")
	assert.Error(t, err)
}

func TestClose_CommitsWrites(t *testing.T) {
	path := seed(t)
	assert.Equal(t, 2, countRows(t, path, "t"))
}

func TestClose_MultipleCalls(t *testing.T) {
	s, err := Open(context.Background(), Memory)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestClose_AfterCallerCommitted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.Cursor().ExecContext(ctx, "CREATE TABLE t (v TEXT)")
	require.NoError(t, err)
	_, err = s.Cursor().ExecContext(ctx, "COMMIT")
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.Equal(t, 0, countRows(t, path, "t"))
}

func TestWith_CommitsOnError(t *testing.T) {
	ctx := context.Background()
	path := seed(t)
	boom := errors.New("boom")

	err := With(ctx, path, func(cur *sql.Conn) error {
		if _, err := cur.ExecContext(ctx, "INSERT INTO t (v) VALUES ('c')"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, countRows(t, path, "t"))
}

func TestWith_ClosesOnPanic(t *testing.T) {
	ctx := context.Background()
	var cursor *sql.Conn

	assert.Panics(t, func() {
		_ = With(ctx, Memory, func(cur *sql.Conn) error {
			cursor = cur
			panic("kaboom")
		})
	})

	_, err := cursor.ExecContext(ctx, "SELECT 1")
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestScratchCopy_LeavesSourceUntouched(t *testing.T) {
	ctx := context.Background()
	path := seed(t)

	var scratch string
	err := With(ctx, path, func(cur *sql.Conn) error {
		if _, err := cur.ExecContext(ctx, "DELETE FROM t"); err != nil {
			return err
		}
		var n int
		if err := cur.QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&n); err != nil {
			return err
		}
		assert.Equal(t, 0, n)
		return nil
	}, WithScratchCopy())
	require.NoError(t, err)
	assert.Equal(t, 2, countRows(t, path, "t"))

	s, err := Open(ctx, path, WithScratchCopy())
	require.NoError(t, err)
	scratch = s.ScratchPath()
	require.NotEmpty(t, scratch)
	assert.NotEqual(t, path, scratch)
	_, err = os.Stat(scratch)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	_, err = os.Stat(scratch)
	assert.True(t, os.IsNotExist(err), "scratch file should be removed on close")
}

func TestScratchCopy_MissingSource(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.db"), WithScratchCopy())
	assert.Error(t, err)
}

func TestPragma_ForeignKeys(t *testing.T) {
	s, err := Open(context.Background(), Memory)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.verifyPragma("foreign_keys", "1"))
	require.NoError(t, s.verifyPragma("busy_timeout", "5000"))
}

// verifyPragma checks that a pragma is set to the expected value.
func (s *Scope) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.conn.QueryRowContext(context.Background(), query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

// Package testutil provides fixtures shared by package tests: a sample
// two-table database and a resettable logical clock.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/tabula/internal/store"
)

// Table1 holds the rows of the sample "table1" (columns col1, col2).
var Table1 = [][]string{
	{"adventus,  us, m.", "arrivée"},
	{"aqua , ae, f", "eau"},
	{"candidus,  a, um", "blanc"},
	{"sol, solis, m", "soleil"},
}

// Table2 holds the rows of the sample "table2" (columns col1, col2, col3).
var Table2 = [][]string{
	{"begin", "began, begun", "commencer"},
	{"break", "broke, broken", "casser"},
	{"do", "did, done", "faire"},
	{"give", "gave, given", "donner"},
}

// SampleDB writes the sample database to a temp file and returns its path.
// With timestamped set, both tables carry a timestamp column defaulting to 0.
func SampleDB(t *testing.T, timestamped bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.db")
	ctx := context.Background()

	err := store.With(ctx, path, func(cur *sql.Conn) error {
		if err := createSample(ctx, cur, "table1", []string{"col1", "col2"}, Table1, timestamped); err != nil {
			return err
		}
		return createSample(ctx, cur, "table2", []string{"col1", "col2", "col3"}, Table2, timestamped)
	})
	if err != nil {
		t.Fatalf("SampleDB: %v", err)
	}
	return path
}

// OpenScratch opens a scratch-copy scope on path and closes it when the test
// ends. Writes never reach path.
func OpenScratch(t *testing.T, path string) *sql.Conn {
	t.Helper()
	s, err := store.Open(context.Background(), path, store.WithScratchCopy())
	if err != nil {
		t.Fatalf("OpenScratch: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.Cursor()
}

// OpenMemory opens an empty in-memory scope closed when the test ends.
func OpenMemory(t *testing.T) *sql.Conn {
	t.Helper()
	s, err := store.Open(context.Background(), store.Memory)
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.Cursor()
}

// StampedIDs returns the ids of rows whose timestamp is not 0.
func StampedIDs(t *testing.T, cur *sql.Conn, table string) []int {
	t.Helper()
	rows, err := cur.QueryContext(context.Background(),
		fmt.Sprintf(`SELECT id FROM %q WHERE "timestamp" != 0 ORDER BY id`, table))
	if err != nil {
		t.Fatalf("StampedIDs: %v", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("StampedIDs: %v", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("StampedIDs: %v", err)
	}
	return ids
}

func createSample(ctx context.Context, cur *sql.Conn, name string, cols []string, rows [][]string, timestamped bool) error {
	decls := []string{"id INTEGER PRIMARY KEY"}
	for _, c := range cols {
		decls = append(decls, c+" TEXT")
	}
	if timestamped {
		decls = append(decls, `"timestamp" INTEGER NOT NULL DEFAULT 0`)
	}
	if _, err := cur.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(decls, ", "))); err != nil {
		return err
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(cols, ", "), marks)
	for _, r := range rows {
		args := make([]any, len(r))
		for i, v := range r {
			args[i] = v
		}
		if _, err := cur.ExecContext(ctx, stmt, args...); err != nil {
			return err
		}
	}
	return nil
}

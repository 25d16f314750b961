package table

import (
	"context"
	"database/sql"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tabula/internal/testutil"
)

var ctx = context.Background()

// setup returns an operator and a scratch cursor on the sample database.
func setup(t *testing.T) (*Operator, *sql.Conn) {
	t.Helper()
	return New(), testutil.OpenScratch(t, testutil.SampleDB(t, false))
}

// withIDs prefixes each row with its 1-based position as id.
func withIDs(rows ...[]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string{strconv.Itoa(i + 1)}, r...)
	}
	return out
}

func mustTable(t *testing.T, ops *Operator, cur *sql.Conn, name string) [][]string {
	t.Helper()
	rows, err := ops.GetTable(ctx, cur, name, ReadOptions{})
	require.NoError(t, err)
	return rows
}

package table

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"table", NewTableNotFound("t"), ErrCodeNotFound},
		{"row", NewRowNotFound("t", 1), ErrCodeNotFound},
		{"column", NewColumnNotFound("t", 1), ErrCodeNotFound},
		{"capacity", NewCapacityError("t", 5, 4), ErrCodeCapacity},
		{"conflict", newConflict("t"), ErrCodeConflict},
		{"mismatch", newRowMismatch("'a'", 1, "t", 2), ErrCodeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.Equal(t, tt.code == ErrCodeNotFound, IsNotFound(wrapped))
			assert.Equal(t, tt.code == ErrCodeCapacity, IsCapacity(wrapped))
			assert.Equal(t, tt.code == ErrCodeConflict, IsConflict(wrapped))
			assert.Equal(t, tt.code == ErrCodeMismatch, IsMismatch(wrapped))
		})
	}

	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestCapacityMessage(t *testing.T) {
	assert.Equal(t, `5 rows are required from "table1", but it only contains 4 rows.`,
		NewCapacityError("table1", 5, 4).Error())
}

func TestQuotedValues(t *testing.T) {
	assert.Equal(t, `'a', "l'eau"`, quotedValues([]string{"a", "l'eau"}))
	assert.Equal(t, "[]", listLiteral(nil))
}

func TestReprString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"eau", `'eau'`},
		{"l'eau", `"l'eau"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "x"`, `'it\'s "x"'`},
		{`a\b`, `'a\\b'`},
		{"a\tb\n", `'a\tb\n'`},
		{"arrivée", `'arrivée'`},
		{"\x01", `'\x01'`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, reprString(tt.in), "reprString(%q)", tt.in)
	}
}

func TestListTables_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT name FROM sqlite_master").WillReturnError(boom)

	_, err = New().ListTables(ctx, db)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list tables")
	assert.False(t, IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRowCount_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT name FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("t"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "t"`).
		WillReturnError(errors.New("locked"))

	_, err = New().RowCount(ctx, db, "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count rows of t")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSavepoint_ReleaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`SAVEPOINT "tabula_x"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`RELEASE "tabula_x"`).WillReturnError(errors.New("busy"))

	err = New().WithSavepoint(ctx, db, "x", func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "release savepoint")
	require.NoError(t, mock.ExpectationsWereMet())
}

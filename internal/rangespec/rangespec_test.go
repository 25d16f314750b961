package rangespec

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLList(t *testing.T) {
	got, err := SQLList("1-3,14,29,92-97")
	require.NoError(t, err)
	assert.Equal(t, "(1, 2, 3, 14, 29, 92, 93, 94, 95, 96, 97)", got)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []int
	}{
		{"single", "7", []int{7}},
		{"range", "2-4", []int{2, 3, 4}},
		{"degenerate range", "5-5", []int{5}},
		{"order preserved", "9,1-2", []int{9, 1, 2}},
		{"no dedup", "1-2,2", []int{1, 2, 2}},
		{"spaces tolerated", " 1 , 3 - 4 ", []int{1, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, spec := range []string{"", "a", "1,,2", "1-", "-3", "0", "4-2", "1-2-3", "1.5"} {
		t.Run(spec, func(t *testing.T) {
			_, err := Parse(spec)
			require.Error(t, err)
			var re *Error
			assert.True(t, errors.As(err, &re), "expected *Error, got %T", err)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "(?)", Placeholders(1))
	assert.Equal(t, "(?, ?, ?)", Placeholders(3))
	assert.Equal(t, "()", Placeholders(0))
}

func TestParse_MaxIntBound(t *testing.T) {
	got, err := Parse("9223372036854775806-9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, []int{math.MaxInt - 1, math.MaxInt}, got)
}

func TestParseWithin(t *testing.T) {
	got, err := ParseWithin("3,1-2", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, got)

	tests := []struct {
		name string
		spec string
		id   int
	}{
		{"single past limit", "1,9", 9},
		{"range crossing limit", "2-2000000000", 4},
		{"range beyond limit", "9223372036854775806-9223372036854775807", 9223372036854775806},
		{"first offender wins", "7,5", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWithin(tt.spec, 3)
			var oor *OutOfRangeError
			require.True(t, errors.As(err, &oor), "expected *OutOfRangeError, got %v", err)
			assert.Equal(t, tt.id, oor.ID)
			assert.Equal(t, 3, oor.Limit)
		})
	}
}

func TestParseWithin_SyntaxBeforeBounds(t *testing.T) {
	_, err := ParseWithin("99,x", 3)
	var re *Error
	assert.True(t, errors.As(err, &re), "expected *Error, got %T", err)
	assert.NoError(t, Validate("1-3,14"))
	assert.Error(t, Validate("1-"))
}

package table

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrorCode categorizes table errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a missing table, row or column.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeMismatch indicates a value count that does not match the
	// table's column count, or tables whose column counts differ.
	ErrCodeMismatch ErrorCode = "STRUCTURAL_MISMATCH"

	// ErrCodeConflict indicates the destination name is already taken.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeCapacity indicates more rows were requested than exist.
	ErrCodeCapacity ErrorCode = "CAPACITY"

	// ErrCodeInvalidName indicates an unusable table or column name.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"

	// ErrCodeInvalidRange indicates a malformed range spec.
	ErrCodeInvalidRange ErrorCode = "INVALID_RANGE"
)

// Error is returned for every caller-detectable table condition. The
// message is stable; callers and tests match on it.
type Error struct {
	Code    ErrorCode
	Message string
	Table   string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

// IsNotFound reports whether err is a missing table, row or column error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsMismatch reports whether err is a column-count mismatch.
func IsMismatch(err error) bool { return hasCode(err, ErrCodeMismatch) }

// IsConflict reports whether err is a name conflict.
func IsConflict(err error) bool { return hasCode(err, ErrCodeConflict) }

// IsCapacity reports whether err is a capacity error.
func IsCapacity(err error) bool { return hasCode(err, ErrCodeCapacity) }

// NewTableNotFound creates the error for a missing table.
func NewTableNotFound(name string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("cannot find a table named %q", name),
		Table:   name,
	}
}

// NewRowNotFound creates the error for a missing row.
func NewRowNotFound(name string, id int) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("cannot find a row number %d in table %q", id, name),
		Table:   name,
	}
}

// NewColumnNotFound creates the error for a column index out of range.
func NewColumnNotFound(name string, col int) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("cannot find a column number %d in table %q", col, name),
		Table:   name,
	}
}

// NewCapacityError creates the error for a draw larger than the table.
func NewCapacityError(name string, requested, available int) *Error {
	return &Error{
		Code:    ErrCodeCapacity,
		Message: fmt.Sprintf("%d rows are required from %q, but it only contains %d rows.", requested, name, available),
		Table:   name,
	}
}

func newConflict(name string) *Error {
	return &Error{
		Code: ErrCodeConflict,
		Message: fmt.Sprintf("action cancelled: a table named %q already exists. "+
			"Please rename or remove it before using this name.", name),
		Table: name,
	}
}

func newRowMismatch(values string, required int, name string, actual int) *Error {
	return &Error{
		Code:    ErrCodeMismatch,
		Message: fmt.Sprintf("%s requires %d columns, but table %s has only %d columns.", values, required, name, actual),
		Table:   name,
	}
}

func newMergeMismatch(src, dst string, srcCols, dstCols []string) *Error {
	return &Error{
		Code: ErrCodeMismatch,
		Message: fmt.Sprintf("cannot merge table %s into table %s because they have different numbers of columns (%s and %s).",
			src, dst, listLiteral(srcCols), listLiteral(dstCols)),
		Table: dst,
	}
}

func newInvalidName(kind, name, reason string) *Error {
	return &Error{
		Code:    ErrCodeInvalidName,
		Message: fmt.Sprintf("invalid %s name %q: %s", kind, name, reason),
		Table:   name,
	}
}

// quotedValues renders values as 'a', 'b', 'c', each quoted by reprString.
func quotedValues(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = reprString(v)
	}
	return strings.Join(parts, ", ")
}

// reprString quotes v repr-style: single quotes, or double quotes when v
// holds a single quote and no double quote.
// Backslashes, the chosen quote and unprintable runes are escaped.
func reprString(v string) string {
	quote := '\''
	if strings.ContainsRune(v, '\'') && !strings.ContainsRune(v, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteRune(quote)
	for _, r := range v {
		switch {
		case r == quote || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	b.WriteRune(quote)
	return b.String()
}

// listLiteral renders values as ['a', 'b', 'c'].
func listLiteral(values []string) string {
	return "[" + quotedValues(values) + "]"
}

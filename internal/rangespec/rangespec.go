package rangespec

import (
	"fmt"
	"strconv"
	"strings"
)

// Error reports a token that is not a positive integer or a valid range.
type Error struct {
	Spec  string
	Token string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid range spec %q: token %q: %s", e.Spec, e.Token, e.Msg)
}

// OutOfRangeError reports the first id, in expansion order, above the
// limit given to ParseWithin.
type OutOfRangeError struct {
	Spec  string
	ID    int
	Limit int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("range spec %q: id %d exceeds %d", e.Spec, e.ID, e.Limit)
}

// span is one validated token, the inclusive interval lo..hi.
type span struct {
	lo, hi int
}

// Parse expands spec into the ordered sequence of integers it describes.
func Parse(spec string) ([]int, error) {
	spans, err := parseSpans(spec)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, s := range spans {
		out = s.appendTo(out)
	}
	return out, nil
}

// ParseWithin is Parse for specs whose ids may not exceed limit. Syntax is
// checked for the whole spec first; then the first id above limit fails
// with *OutOfRangeError without expanding anything past it.
func ParseWithin(spec string, limit int) ([]int, error) {
	spans, err := parseSpans(spec)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, s := range spans {
		if s.lo > limit {
			return nil, &OutOfRangeError{Spec: spec, ID: s.lo, Limit: limit}
		}
		if s.hi > limit {
			return nil, &OutOfRangeError{Spec: spec, ID: limit + 1, Limit: limit}
		}
		out = s.appendTo(out)
	}
	return out, nil
}

// Validate reports whether spec is well formed without expanding it.
func Validate(spec string) error {
	_, err := parseSpans(spec)
	return err
}

func (s span) appendTo(out []int) []int {
	for n := s.lo; ; n++ {
		out = append(out, n)
		if n == s.hi {
			return out
		}
	}
}

func parseSpans(spec string) ([]span, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, &Error{Spec: spec, Msg: "empty"}
	}

	var out []span
	for _, raw := range strings.Split(spec, ",") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			return nil, &Error{Spec: spec, Token: raw, Msg: "empty token"}
		}

		low, high, isRange := strings.Cut(tok, "-")
		if !isRange {
			n, err := parsePositive(tok)
			if err != nil {
				return nil, &Error{Spec: spec, Token: tok, Msg: err.Error()}
			}
			out = append(out, span{lo: n, hi: n})
			continue
		}

		lo, err := parsePositive(strings.TrimSpace(low))
		if err != nil {
			return nil, &Error{Spec: spec, Token: tok, Msg: "low bound: " + err.Error()}
		}
		hi, err := parsePositive(strings.TrimSpace(high))
		if err != nil {
			return nil, &Error{Spec: spec, Token: tok, Msg: "high bound: " + err.Error()}
		}
		if lo > hi {
			return nil, &Error{Spec: spec, Token: tok, Msg: fmt.Sprintf("low bound %d exceeds high bound %d", lo, hi)}
		}
		out = append(out, span{lo: lo, hi: hi})
	}
	return out, nil
}

// SQLList renders spec as a parenthesized literal list usable in an SQL
// IN clause, e.g. "(1, 2, 3, 14)".
func SQLList(spec string) (string, error) {
	ids, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return Format(ids), nil
}

// Format renders ids as "(a, b, c)".
func Format(ids []int) string {
	parts := make([]string, len(ids))
	for i, n := range ids {
		parts[i] = strconv.Itoa(n)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Placeholders returns "(?, ?, ...)" with n parameters.
func Placeholders(n int) string {
	if n <= 0 {
		return "()"
	}
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	if n < 1 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

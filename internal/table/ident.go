package table

import "strings"

// IDColumn is the reserved identity column present in every table.
const IDColumn = "id"

// QuoteIdent quotes an SQL identifier, doubling embedded double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

func validateTableName(name string) error {
	switch {
	case name == "":
		return newInvalidName("table", name, "empty")
	case strings.ContainsRune(name, 0):
		return newInvalidName("table", name, "contains NUL")
	case strings.HasPrefix(strings.ToLower(name), "sqlite_"):
		return newInvalidName("table", name, "prefix sqlite_ is reserved")
	}
	return nil
}

func (o *Operator) validateColumns(cols []string) error {
	if len(cols) == 0 {
		return newInvalidName("column", "", "a table needs at least one column")
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		switch {
		case c == "":
			return newInvalidName("column", c, "empty")
		case strings.ContainsRune(c, 0):
			return newInvalidName("column", c, "contains NUL")
		case strings.EqualFold(c, IDColumn) || o.isReserved(c):
			return newInvalidName("column", c, "reserved")
		case seen[strings.ToLower(c)]:
			return newInvalidName("column", c, "duplicate")
		}
		seen[strings.ToLower(c)] = true
	}
	return nil
}

func (o *Operator) isReserved(name string) bool {
	for _, r := range o.reserved {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

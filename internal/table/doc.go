// Package table implements structural operations on flat text tables stored
// in SQLite.
//
// Every table has a reserved identity column, id INTEGER PRIMARY KEY, plus
// an ordered list of caller-named TEXT data columns. Ids are dense: they run
// 1..n, and deletions renumber the remaining rows in their previous order.
//
// The Operator holds no connection. Each method borrows a Querier (usually
// the cursor of a store.Scope) for the duration of the call:
//
//	ops := table.New()
//	rows, err := ops.GetTable(ctx, cur, "verbs", table.ReadOptions{SortBy: 2})
//
// Identifiers cannot be bound as parameters, so table and column names are
// always double-quoted and existing names are only interpolated after being
// looked up in the schema. Values and row ids are always bound.
//
// Multi-statement mutations run inside a SAVEPOINT and are rolled back to
// it on failure; validation happens before the first write.
package table

// Package rangespec parses compact integer-range expressions such as
// "1-3,14,29,92-97".
//
// A RangeSpec is a comma-separated list of tokens. Each token is either a
// single positive integer or an inclusive "low-high" range. Expansion keeps
// the order of the input and does not deduplicate:
//
//	Parse("3,1-2")  -> [3 1 2]
//	SQLList("1-3")  -> "(1, 2, 3)"
//
// Row operations expand specs with ParseWithin, bounded by the table's row
// count, and embed the result with Format. The ids are parsed integers, so
// the literal list is safe to splice into an IN clause and is not subject to
// the driver's limit on bound parameters.
package rangespec

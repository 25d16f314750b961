// Package stamped extends table operations with a per-row "last drawn"
// tick kept in a reserved timestamp column.
//
// A tick of 0 means the row has never been drawn, or was reset. Draws
// prefer unstamped rows over stamped ones and stamp what they return, so
// drawing repeatedly from a pool surfaces every row before any repeats.
// An optional decay threshold bounds how many rows stay marked.
package stamped

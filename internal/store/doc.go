// Package store owns the connection to the embedded SQLite database.
//
// A Scope pins exactly one connection for the duration of a block of work.
// The connection runs inside a single explicit transaction that is
// committed when the scope closes, on every exit path. Once closed, the
// cursor handed out by the scope is unusable: every call on it returns
// sql.ErrConnDone.
//
//	err := store.With(ctx, "words.db", func(cur *sql.Conn) error {
//		ops := table.New()
//		return ops.InsertRows(ctx, cur, "verbs", rows...)
//	})
//
// # Database Configuration
//
//   - one open connection, one idle connection (single writer)
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// WithScratchCopy runs the scope against a throwaway duplicate of the
// database so destructive operations can be exercised without touching the
// original file.
package store

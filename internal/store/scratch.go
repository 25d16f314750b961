package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// scratchCopy duplicates the database at path into a new file under the OS
// temp dir and returns the new file's path.
func scratchCopy(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}

	dest := filepath.Join(os.TempDir(), "tabula-"+uuid.NewString()+".db")

	src, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := src.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		removeScratch(dest)
		return "", fmt.Errorf("vacuum into %s: %w", dest, err)
	}
	return dest, nil
}

func removeScratch(path string) {
	if path == "" {
		return
	}
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		_ = os.Remove(p)
	}
}

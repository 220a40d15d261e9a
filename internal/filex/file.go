// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDirFor creates the parent directory of path (mode 0700) so a file
// can be created there. Paths without a directory part and SQLite special
// names such as ":memory:" are left alone.
func EnsureDirFor(path string) error {
	if path == "" || path == ":memory:" || filepath.Base(path) == path {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates the upload directory tree if it does not exist yet.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// SafeJoin joins a stored filename onto the upload root, discarding any path
// components a client may have smuggled into the name.
func SafeJoin(root, name string) string {
	return filepath.Join(root, filepath.Base(name))
}

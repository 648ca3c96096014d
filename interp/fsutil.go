package interp

import (
	"os"
	"path/filepath"
)

func isAbs(path string) bool { return filepath.IsAbs(path) }

func joinPath(dir, path string) string { return filepath.Join(dir, path) }

// statDir reports whether path exists and is a directory.
func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

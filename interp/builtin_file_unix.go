//go:build unix

package interp

import (
	"os"

	"golang.org/x/sys/unix"
)

// checkWritable pre-flights a write/append target: if it already
// exists, the current user must have write permission, mirroring the
// teacher's use of unix.Access for its own -w-style test operators in
// os_unix.go. A missing file is fine; the open call below creates it.
func checkWritable(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return unix.Access(path, unix.W_OK)
}

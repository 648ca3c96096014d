// Package scriptfile recognizes bellos script files: their shebang
// line and their conventional extension.
package scriptfile

import (
	"strings"
)

// HasShebang reports whether src begins with a "#!" line.
func HasShebang(src string) bool {
	return strings.HasPrefix(src, "#!")
}

// HasExt reports whether name carries the conventional .bellos
// extension. The core does not enforce this; drivers may choose to.
func HasExt(name string) bool {
	return strings.HasSuffix(name, ".bellos")
}

// IsSkippable reports whether line contributes nothing to a script:
// it is blank, or its first non-whitespace character is "#".
func IsSkippable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

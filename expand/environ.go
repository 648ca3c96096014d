// Package expand implements bellos's one-pass variable, arithmetic,
// and tilde expansion.
package expand

import (
	"os"
	"strconv"
	"strings"
)

// Environ is the two-tier variable lookup expand.Literal reads
// through: shell variables first, then the process environment.
// interp.Runner implements this directly against its own variable
// map.
type Environ interface {
	Get(name string) (string, bool)
}

// OSEnviron resolves only against the process environment; it is
// useful for expanding strings outside of a running Runner (tests,
// tooling).
type OSEnviron struct{}

func (OSEnviron) Get(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Config carries everything Literal needs beyond the input string:
// the variable source, the last exit status (for $?), and the
// positional argument list (for $#, $*, $@).
type Config struct {
	Env      Environ
	LastExit uint8
	Args     []string
}

func (c *Config) get(name string) string {
	if c == nil {
		return ""
	}
	switch name {
	case "?":
		return strconv.Itoa(int(c.LastExit))
	case "#":
		return strconv.Itoa(len(c.Args))
	case "*", "@":
		return strings.Join(c.Args, " ")
	}
	if c.Env != nil {
		if v, ok := c.Env.Get(name); ok {
			return v
		}
	}
	return ""
}

package interp

import "os"

// Environ is the process-environment view a Runner reads $NAME
// fallbacks from and export writes to.
type Environ interface {
	Get(name string) (string, bool)
	Set(name, value string) error
}

// osEnviron is the default Environ: the real process environment.
type osEnviron struct{}

func (osEnviron) Get(name string) (string, bool) { return os.LookupEnv(name) }

func (osEnviron) Set(name, value string) error { return os.Setenv(name, value) }

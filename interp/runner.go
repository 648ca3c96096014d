// Package interp evaluates bellos syntax trees against a Runner: the
// mutable environment of shell variables, functions, last exit
// status, and background jobs.
package interp

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/Architecture-Mechanism/bellos/syntax"
)

// ExitStatus is a process exit code that also implements error, so
// that a non-zero exit can be returned and checked with errors.As.
type ExitStatus uint8

func (e ExitStatus) Error() string { return "exit status " + strconv.Itoa(int(e)) }

// Runner is the long-lived evaluation state of one shell session: it
// survives across statements and is the shell's Environment. A
// background job gets a shallow-copied Runner of its own (see
// subshell), so it never races on the parent's maps.
type Runner struct {
	Env  Environ
	Dir  string
	Args []string // positional arguments, for $#, $*, $@

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	vars  map[string]string
	funcs map[string]*syntax.Function

	lastExit ExitStatus
	jobs     *jobTable

	// mu guards vars/funcs. It is a pointer so that a Runner copy
	// sharing the same maps (see withIO) also shares the same lock;
	// subshell, which gets its own maps, gets a fresh one too.
	mu *sync.Mutex
}

// RunnerOption configures a Runner at construction time.
type RunnerOption func(*Runner) error

// New creates a Runner, applying opts in order. Unset fields default
// to the process's own environment, working directory, and standard
// streams.
func New(opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		vars:  map[string]string{},
		funcs: map[string]*syntax.Function{},
		jobs:  newJobTable(),
		mu:    &sync.Mutex{},
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.Env == nil {
		if err := Env(nil)(r); err != nil {
			return nil, err
		}
	}
	if r.Dir == "" {
		if wd, err := os.Getwd(); err == nil {
			r.Dir = wd
		}
	}
	if r.stdin == nil {
		r.stdin = os.Stdin
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.stderr == nil {
		r.stderr = os.Stderr
	}
	return r, nil
}

// Env sets the Runner's process-environment view. A nil env falls
// back to a live view of os.Environ/os.Setenv.
func Env(env Environ) RunnerOption {
	return func(r *Runner) error {
		if env == nil {
			env = osEnviron{}
		}
		r.Env = env
		return nil
	}
}

// Dir sets the Runner's working directory: the directory external
// commands run in, and the base cd resolves a relative argument
// against. Redirection targets and the file builtins' paths are
// resolved against the process's own working directory, not Dir.
func Dir(path string) RunnerOption {
	return func(r *Runner) error {
		r.Dir = path
		return nil
	}
}

// StdIO sets the Runner's standard streams. Nil writers discard their
// output.
func StdIO(in io.Reader, out, errw io.Writer) RunnerOption {
	return func(r *Runner) error {
		if in != nil {
			r.stdin = in
		}
		if out == nil {
			out = io.Discard
		}
		r.stdout = out
		if errw == nil {
			errw = io.Discard
		}
		r.stderr = errw
		return nil
	}
}

// Params sets the Runner's positional arguments ($#, $*, $@).
func Params(args ...string) RunnerOption {
	return func(r *Runner) error {
		r.Args = args
		return nil
	}
}

// Get implements expand.Environ by resolving name the same way $NAME
// expansion does: shell variables first, then the process environment.
func (r *Runner) Get(name string) (string, bool) { return r.getVar(name) }

// LastExit reports the exit status of the most recently evaluated
// Command, Pipeline, or control construct — the value observable
// through $?.
func (r *Runner) LastExit() uint8 { return uint8(r.lastExit) }

func (r *Runner) setExit(code uint8) { r.lastExit = ExitStatus(code) }

// getVar resolves name against shell variables first, then the
// process environment, defaulting to "" — the same resolution order
// $NAME expansion uses.
func (r *Runner) getVar(name string) (string, bool) {
	r.mu.Lock()
	v, ok := r.vars[name]
	r.mu.Unlock()
	if ok {
		return v, true
	}
	if r.Env != nil {
		return r.Env.Get(name)
	}
	return "", false
}

func (r *Runner) setVar(name, value string) {
	r.mu.Lock()
	r.vars[name] = value
	r.mu.Unlock()
}

func (r *Runner) lookupFunc(name string) (*syntax.Function, bool) {
	r.mu.Lock()
	f, ok := r.funcs[name]
	r.mu.Unlock()
	return f, ok
}

func (r *Runner) setFunc(name string, body *syntax.Function) {
	r.mu.Lock()
	r.funcs[name] = body
	r.mu.Unlock()
}

// subshell returns a new Runner that shares no mutable variable or
// function state with r: a shallow copy of vars/funcs taken at fork
// time and a fresh mutex. The job table is deliberately still shared,
// so "jobs" run from a background task lists alongside its siblings.
// This is the cloned in-process environment background tasks run in:
// mutations to vars/funcs inside the clone are never visible to the
// parent.
func (r *Runner) subshell() *Runner {
	r.mu.Lock()
	vars := make(map[string]string, len(r.vars))
	for k, v := range r.vars {
		vars[k] = v
	}
	funcs := make(map[string]*syntax.Function, len(r.funcs))
	for k, v := range r.funcs {
		funcs[k] = v
	}
	r.mu.Unlock()

	return &Runner{
		Env:    r.Env,
		Dir:    r.Dir,
		Args:   r.Args,
		stdin:  r.stdin,
		stdout: r.stdout,
		stderr: r.stderr,
		vars:   vars,
		funcs:  funcs,
		jobs:   r.jobs, // the job table itself is the one shared structure
		mu:     &sync.Mutex{},
	}
}

func (r *Runner) errf(format string, a ...any) {
	fmt.Fprint(r.stderr, "Error: ")
	fmt.Fprintf(r.stderr, format, a...)
}

package interp

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Architecture-Mechanism/bellos/syntax"
)

// expandArgs expands a command's name and argument words in order.
func (r *Runner) expandArgs(n *syntax.Command) (name string, args []string, err error) {
	name, err = r.expandString(n.Name)
	if err != nil {
		return "", nil, err
	}
	args = make([]string, len(n.Args))
	for i, a := range n.Args {
		v, err := r.expandString(a)
		if err != nil {
			return "", nil, err
		}
		args[i] = v
	}
	return name, args, nil
}

// runCommand dispatches a command three ways in order: builtin, then
// user function, then external process.
func (r *Runner) runCommand(ctx context.Context, n *syntax.Command) (uint8, error) {
	name, args, err := r.expandArgs(n)
	if err != nil {
		r.errf("%v\n", err)
		return 1, nil
	}
	if name == "" {
		return 0, nil
	}

	if fn, ok := builtins[name]; ok {
		return fn(ctx, r, args)
	}
	if body, ok := r.lookupFunc(name); ok {
		// Functions share the caller's variables; there is no local
		// scope.
		return r.eval(ctx, body.Body)
	}
	return r.runExternal(ctx, name, args, r.stdin, r.stdout, r.stderr)
}

func (r *Runner) runExternal(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) (uint8, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Env = r.processEnviron()
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return uint8(exitErr.ExitCode()), nil
		}
		r.errf("%s: %v\n", name, err)
		return 127, nil
	}
	return 0, nil
}

// processEnviron builds the environment external children see: the
// real process environment, read through os.Environ. Export writes
// reach it when r.Env is the default process-environment view; the
// contents of any other Environ are not passed to children.
func (r *Runner) processEnviron() []string {
	return os.Environ()
}

// runPipeline wires c1 | c2 | ... | cn through n-1 OS pipes: each
// stage's stdin is the previous stage's pipe read end (or the
// Runner's own stdin for the first), its stdout is the next stage's
// pipe write end (or the Runner's own stdout for the last).
// Each stage closes its own pipe ends when it returns, so the next
// stage sees EOF once its writer is done; every end is closed again
// after all stages finish. All stages run concurrently under one
// errgroup.Group.
func (r *Runner) runPipeline(ctx context.Context, n *syntax.Pipeline) (uint8, error) {
	stages := n.Commands
	readers := make([]io.Reader, len(stages))
	writers := make([]io.Writer, len(stages))
	readers[0] = r.stdin
	writers[len(stages)-1] = r.stdout

	var closers []func() error
	for i := 0; i < len(stages)-1; i++ {
		pr, pw, err := os.Pipe()
		if err != nil {
			r.errf("pipe: %v\n", err)
			return 1, nil
		}
		writers[i] = pw
		readers[i+1] = pr
		closers = append(closers, pr.Close, pw.Close)
	}

	var g errgroup.Group
	codes := make([]uint8, len(stages))
	for i, cmd := range stages {
		i, cmd := i, cmd
		g.Go(func() error {
			if pw, ok := writers[i].(*os.File); ok && i < len(stages)-1 {
				defer pw.Close()
			}
			if pr, ok := readers[i].(*os.File); ok && i > 0 {
				defer pr.Close()
			}
			name, args, err := r.expandArgs(cmd)
			if err != nil {
				return err
			}
			var code uint8
			if fn, ok := builtins[name]; ok {
				sub := r.subshell().withIO(readers[i], writers[i], r.stderr)
				code, err = fn(ctx, sub, args)
			} else if body, ok := r.lookupFunc(name); ok {
				sub := r.subshell().withIO(readers[i], writers[i], r.stderr)
				code, err = sub.eval(ctx, body.Body)
			} else {
				code, err = r.runExternal(ctx, name, args, readers[i], writers[i], r.stderr)
			}
			codes[i] = code
			return err
		})
	}
	err := g.Wait()
	for _, c := range closers {
		c()
	}
	if err != nil {
		r.errf("%v\n", err)
	}
	return codes[len(codes)-1], nil
}

// withIO returns a shallow copy of r with its standard streams
// replaced, used to give one pipeline stage or redirected statement
// its own stdin/stdout without disturbing the parent Runner's.
func (r *Runner) withIO(stdin io.Reader, stdout, stderr io.Writer) *Runner {
	cp := *r
	cp.stdin = stdin
	cp.stdout = stdout
	cp.stderr = stderr
	return &cp
}

// runRedirect opens Target per Dir and evaluates Inner with that
// stream substituted for stdin or stdout. The substitution's scope is
// exactly Inner; the Runner's own streams are restored once Inner
// returns, leaving the shell's stdout/stdin unchanged afterwards.
func (r *Runner) runRedirect(ctx context.Context, n *syntax.Redirect) (uint8, error) {
	target, err := r.expandString(n.Target)
	if err != nil {
		r.errf("%v\n", err)
		return 1, nil
	}

	if n.Dir == syntax.RedirOutput {
		return r.runRedirectOutput(ctx, n, target)
	}

	var f *os.File
	if n.Dir == syntax.RedirInput {
		f, err = os.Open(target)
	} else {
		f, err = os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	}
	if err != nil {
		r.errf("%s: %v\n", target, err)
		return 1, nil
	}
	defer f.Close()

	var sub *Runner
	if n.Dir == syntax.RedirInput {
		sub = r.withIO(f, r.stdout, r.stderr)
	} else {
		sub = r.withIO(r.stdin, f, r.stderr)
	}
	code, err := sub.eval(ctx, n.Inner)
	r.lastExit = sub.lastExit
	return code, err
}

// runRedirectOutput implements "cmd > target": the target is written
// through a staged temp file and atomically moved into place once
// Inner returns without an error, whatever its exit status; the same
// rename-on-close discipline renameio/v2 is built around. If Inner
// returns an error, the staged file is discarded and the target is
// left untouched.
func (r *Runner) runRedirectOutput(ctx context.Context, n *syntax.Redirect, target string) (uint8, error) {
	pf, err := renameio.NewPendingFile(target)
	if err != nil {
		r.errf("%s: %v\n", target, err)
		return 1, nil
	}
	defer pf.Cleanup()

	sub := r.withIO(r.stdin, pf, r.stderr)
	code, err := sub.eval(ctx, n.Inner)
	r.lastExit = sub.lastExit
	if err != nil {
		return code, err
	}
	if cerr := pf.CloseAtomicallyReplace(); cerr != nil {
		r.errf("%s: %v\n", target, cerr)
		return 1, nil
	}
	return code, nil
}

// runBackground forks r (see Runner.subshell) and evaluates Inner in
// a goroutine tracked by the job table, returning immediately with
// status 0.
func (r *Runner) runBackground(ctx context.Context, n *syntax.Background) (uint8, error) {
	sub := r.subshell()
	r.jobs.start(func() {
		sub.eval(ctx, n.Inner)
	})
	return 0, nil
}

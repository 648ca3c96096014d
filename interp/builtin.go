package interp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// builtinFunc is one builtin's implementation: expanded args in,
// exit status out. It may also write to r.stdout/r.stderr.
type builtinFunc func(ctx context.Context, r *Runner, args []string) (uint8, error)

// builtins is the fixed table of built-in commands, plus the
// test/comparison forms (themselves ordinary Commands as far as the
// evaluator is concerned).
var builtins = map[string]builtinFunc{
	"cd":     builtinCd,
	"echo":   builtinEcho,
	"exit":   builtinExit,
	"export": builtinExport,
	"jobs":   builtinJobs,
	"test":   builtinTest,
	"[":      builtinBracket,
	"write":  builtinWrite,
	"append": builtinAppend,
	"read":   builtinRead,
	"delete": builtinDelete,
	"seq":    builtinSeq,
}

func builtinCd(_ context.Context, r *Runner, args []string) (uint8, error) {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	} else if home, ok := r.getVar("HOME"); ok {
		dir = home
	}
	if dir == "" {
		r.errf("cd: HOME not set\n")
		return 1, nil
	}
	if !isAbs(dir) {
		dir = joinPath(r.Dir, dir)
	}
	isDir, err := statDir(dir)
	if err != nil || !isDir {
		r.errf("cd: %s: not a directory\n", dir)
		return 1, nil
	}
	r.Dir = dir
	return 0, nil
}

func builtinEcho(_ context.Context, r *Runner, args []string) (uint8, error) {
	fmt.Fprintln(r.stdout, strings.Join(args, " "))
	return 0, nil
}

func builtinExit(_ context.Context, _ *Runner, args []string) (uint8, error) {
	code := uint8(0)
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return 1, fmt.Errorf("exit: invalid status %q", args[0])
		}
		code = uint8(n)
	}
	// Propagating ExitStatus as an error is the one deliberate
	// exception to the rule that statement errors never terminate the
	// shell: it is how the "exit" builtin reaches the driver loop,
	// which is the only place that acts on it.
	return code, ExitStatus(code)
}

func builtinExport(_ context.Context, r *Runner, args []string) (uint8, error) {
	for _, a := range args {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			r.errf("export: usage: export NAME=VAL\n")
			return 1, nil
		}
		r.setVar(name, value)
		if r.Env != nil {
			if err := r.Env.Set(name, value); err != nil {
				r.errf("export: %v\n", err)
				return 1, nil
			}
		}
	}
	return 0, nil
}

func builtinJobs(_ context.Context, r *Runner, _ []string) (uint8, error) {
	for _, line := range r.jobs.List() {
		fmt.Fprintln(r.stdout, line)
	}
	return 0, nil
}

func builtinTest(_ context.Context, r *Runner, args []string) (uint8, error) {
	ok, err := evalTest(args, false)
	if err != nil {
		r.errf("%v\n", err)
		return 2, nil
	}
	return boolStatus(ok), nil
}

func builtinBracket(_ context.Context, r *Runner, args []string) (uint8, error) {
	ok, err := evalTest(args, true)
	if err != nil {
		r.errf("%v\n", err)
		return 2, nil
	}
	return boolStatus(ok), nil
}

func boolStatus(ok bool) uint8 {
	if ok {
		return 0
	}
	return 1
}

func builtinSeq(_ context.Context, r *Runner, args []string) (uint8, error) {
	var start, step, end int64 = 1, 1, 0
	switch len(args) {
	case 1:
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			r.errf("seq: invalid number %q\n", args[0])
			return 1, nil
		}
		end = n
	case 2:
		s, err1 := strconv.ParseInt(args[0], 10, 64)
		e, err2 := strconv.ParseInt(args[1], 10, 64)
		if err1 != nil || err2 != nil {
			r.errf("seq: invalid arguments\n")
			return 1, nil
		}
		start, end = s, e
	case 3:
		s, err1 := strconv.ParseInt(args[0], 10, 64)
		st, err2 := strconv.ParseInt(args[1], 10, 64)
		e, err3 := strconv.ParseInt(args[2], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			r.errf("seq: invalid arguments\n")
			return 1, nil
		}
		start, step, end = s, st, e
	default:
		r.errf("usage: seq [START [STEP]] END\n")
		return 1, nil
	}
	if step == 0 {
		r.errf("seq: STEP cannot be zero\n")
		return 1, nil
	}
	for n := start; (step > 0 && n <= end) || (step < 0 && n >= end); n += step {
		fmt.Fprintln(r.stdout, n)
	}
	return 0, nil
}

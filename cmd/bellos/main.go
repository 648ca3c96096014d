// bellos is a small POSIX-flavored shell: it runs a script file given
// as its one argument, or reads statements interactively from stdin
// when given none.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Architecture-Mechanism/bellos/interp"
	"github.com/Architecture-Mechanism/bellos/internal/scriptfile"
	"github.com/Architecture-Mechanism/bellos/syntax"
)

func main() { os.Exit(main1()) }

// main1 is split out from main so that the testscript harness can run
// it in-process as a subcommand.
func main1() int {
	err := runAll()
	var es interp.ExitStatus
	if errors.As(err, &es) {
		return int(es)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runAll() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := interp.New(interp.StdIO(os.Stdin, os.Stdout, os.Stderr))
	if err != nil {
		return err
	}

	if len(os.Args) < 2 {
		return runInteractive(ctx, r, os.Stdin, os.Stdout)
	}
	return runPath(ctx, r, os.Args[1])
}

// runPath evaluates path one line at a time, mirroring a real shell's
// recovery from a single bad statement: a parse error or a runtime
// error on one line is reported and execution moves on to the next
// line, rather than losing the rest of the script. Only the "exit"
// builtin's ExitStatus unwinds the whole run.
func runPath(ctx context.Context, r *interp.Runner, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if i == 0 && scriptfile.HasShebang(line) {
			continue
		}
		if scriptfile.IsSkippable(line) {
			continue
		}

		nodes, perr := syntax.NewParser(line, "").Parse()
		if perr != nil {
			fmt.Fprintf(os.Stderr, "%s:%d: %s\n", path, i+1, parseErrText(perr))
			continue
		}
		if err := runStatements(ctx, r, nodes); err != nil {
			return err
		}
	}
	return nil
}

// parseErrText strips the line-relative position a ParseError carries
// (always "1:col" here, since each line is parsed on its own) so the
// caller can prefix the real line number instead.
func parseErrText(err error) string {
	if pe, ok := err.(*syntax.ParseError); ok {
		return pe.Text
	}
	return err.Error()
}

// runStatements evaluates nodes in order against r. A plain runtime
// error is reported to stderr and does not stop the remaining nodes
// or statements, per the "errors don't terminate the shell" rule;
// only an ExitStatus (from the "exit" builtin) propagates, so the
// caller can unwind and use it as the process's own exit code.
func runStatements(ctx context.Context, r *interp.Runner, nodes []syntax.Node) error {
	for _, n := range nodes {
		if _, err := r.Eval(ctx, n); err != nil {
			var es interp.ExitStatus
			if errors.As(err, &es) {
				return err
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return nil
}

// runInteractive prints the "bellos> " prompt before every read,
// parses and evaluates one line at a time, and stops as soon as the
// "exit" builtin returns an ExitStatus.
func runInteractive(ctx context.Context, r *interp.Runner, stdin *os.File, stdout *os.File) error {
	sc := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "bellos> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := sc.Text()
		if scriptfile.IsSkippable(line) {
			continue
		}

		nodes, perr := syntax.NewParser(line, "").Parse()
		if perr != nil {
			fmt.Fprintln(os.Stderr, perr)
			continue
		}
		if err := runStatements(ctx, r, nodes); err != nil {
			return err
		}
	}
}

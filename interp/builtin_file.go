package interp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2/maybe"
)

// builtinWrite implements "write FILE CONTENT...": CONTENT words are
// joined with single spaces and the file is replaced atomically via
// maybe.WriteFile.
func builtinWrite(_ context.Context, r *Runner, args []string) (uint8, error) {
	if len(args) < 1 {
		r.errf("usage: write FILE [CONTENT...]\n")
		return 1, nil
	}
	path, content := args[0], strings.Join(args[1:], " ")
	if err := checkWritable(path); err != nil {
		r.errf("write: %v\n", err)
		return 1, nil
	}
	if err := maybe.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		r.errf("write: %v\n", err)
		return 1, nil
	}
	return 0, nil
}

// builtinAppend implements "append FILE CONTENT...". Appends are
// inherently non-atomic (the file is mutated in place), so unlike
// write it opens directly with O_APPEND rather than going through
// renameio.
func builtinAppend(_ context.Context, r *Runner, args []string) (uint8, error) {
	if len(args) < 1 {
		r.errf("usage: append FILE [CONTENT...]\n")
		return 1, nil
	}
	path, content := args[0], strings.Join(args[1:], " ")
	if err := checkWritable(path); err != nil {
		r.errf("append: %v\n", err)
		return 1, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		r.errf("append: %v\n", err)
		return 1, nil
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, content); err != nil {
		r.errf("append: %v\n", err)
		return 1, nil
	}
	return 0, nil
}

func builtinRead(_ context.Context, r *Runner, args []string) (uint8, error) {
	if len(args) != 1 {
		r.errf("usage: read FILE\n")
		return 1, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		r.errf("read: %v\n", err)
		return 1, nil
	}
	fmt.Fprint(r.stdout, string(data))
	return 0, nil
}

func builtinDelete(_ context.Context, r *Runner, args []string) (uint8, error) {
	if len(args) != 1 {
		r.errf("usage: delete FILE\n")
		return 1, nil
	}
	if err := os.Remove(args[0]); err != nil {
		r.errf("delete: %v\n", err)
		return 1, nil
	}
	return 0, nil
}

package interp

import (
	"context"
	"fmt"

	"github.com/Architecture-Mechanism/bellos/expand"
	"github.com/Architecture-Mechanism/bellos/syntax"
)

// Eval walks one AST node, mutating r as needed, and returns the
// resulting exit status. The returned status is also recorded as r's
// last exit status, observable via $?.
func (r *Runner) Eval(ctx context.Context, node syntax.Node) (uint8, error) {
	code, err := r.eval(ctx, node)
	r.setExit(code)
	return code, err
}

func (r *Runner) eval(ctx context.Context, node syntax.Node) (uint8, error) {
	switch n := node.(type) {
	case *syntax.Assignment:
		val, err := r.expandString(n.Value)
		if err != nil {
			r.errf("%v\n", err)
			return 1, nil
		}
		r.setVar(n.Name, val)
		return 0, nil

	case *syntax.Block:
		var code uint8
		for _, st := range n.Stmts {
			c, err := r.eval(ctx, st)
			if err != nil {
				return c, err
			}
			code = c
		}
		return code, nil

	case *syntax.If:
		cond, err := r.eval(ctx, n.Cond)
		if err != nil {
			return cond, err
		}
		if cond == 0 {
			return r.eval(ctx, n.Then)
		}
		if n.Else != nil {
			return r.eval(ctx, n.Else)
		}
		return 0, nil

	case *syntax.While:
		var code uint8
		for {
			cond, err := r.eval(ctx, n.Cond)
			if err != nil {
				return cond, err
			}
			if cond != 0 {
				return code, nil
			}
			code, err = r.eval(ctx, n.Body)
			if err != nil {
				return code, err
			}
		}

	case *syntax.For:
		var code uint8
		for _, w := range n.Words {
			word, err := r.expandString(w)
			if err != nil {
				r.errf("%v\n", err)
				return 1, nil
			}
			r.setVar(n.Var, word)
			code, err = r.eval(ctx, n.Body)
			if err != nil {
				return code, err
			}
		}
		return code, nil

	case *syntax.Case:
		word, err := r.expandString(n.Word)
		if err != nil {
			r.errf("%v\n", err)
			return 1, nil
		}
		for _, arm := range n.Arms {
			if arm.Pattern == "*" || arm.Pattern == word {
				return r.eval(ctx, arm.Body)
			}
		}
		return 0, nil

	case *syntax.Function:
		r.setFunc(n.Name, n)
		return 0, nil

	case *syntax.Command:
		code, err := r.runCommand(ctx, n)
		r.setExit(code)
		return code, err

	case *syntax.Pipeline:
		return r.runPipeline(ctx, n)

	case *syntax.Redirect:
		return r.runRedirect(ctx, n)

	case *syntax.Background:
		return r.runBackground(ctx, n)

	default:
		return 1, fmt.Errorf("interp: unhandled node type %T", node)
	}
}

// expandString expands a single unexpanded string: an argument,
// redirection target, or assignment value.
func (r *Runner) expandString(s string) (string, error) {
	cfg := &expand.Config{Env: r, LastExit: uint8(r.lastExit), Args: r.Args}
	return expand.Literal(cfg, s)
}

package query

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/dmyersturnbull/tyranno/ir"
)

func init() {
	Register(&fn{name: "filter", minArgs: 1, maxArgs: 1, apply: filterFn})
	Register(&fn{name: "map", minArgs: 1, maxArgs: 1, apply: mapFn})
}

// exprOpts exposes document access to compiled programs.
func exprOpts(ev *Evaluator) []expr.Option {
	return []expr.Option{
		expr.Function("getpath", func(params ...any) (any, error) {
			res, err := ev.Root.GetPath(params[0].(string))
			if err != nil {
				return nil, err
			}
			return ir.ToAny(res), nil
		},
			new(func(string) any)),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}

func compileElement(ev *Evaluator, program string) (*vm.Program, error) {
	opts := append(exprOpts(ev), expr.AllowUndefinedVariables())
	return expr.Compile(program, opts...)
}

func runElement(prg *vm.Program, el *ir.Node) (any, error) {
	return expr.Run(prg, map[string]any{"x": ir.ToAny(el)})
}

// filterFn keeps the array elements for which the program (with the
// element bound to x) returns true.
func filterFn(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	if v.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: filter wants an array, got %s", ErrBadArgs, v.Type)
	}
	prg, err := compileElement(ev, args[0])
	if err != nil {
		return nil, err
	}
	var out []*ir.Node
	for _, el := range v.Values {
		res, err := runElement(prg, el)
		if err != nil {
			return nil, err
		}
		keep, ok := res.(bool)
		if !ok {
			return nil, fmt.Errorf("filter program returned %T, want bool", res)
		}
		if keep {
			out = append(out, el.Clone())
		}
	}
	return ir.FromSlice(out), nil
}

// mapFn replaces each array element with the program's result.
func mapFn(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	if v.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: map wants an array, got %s", ErrBadArgs, v.Type)
	}
	prg, err := compileElement(ev, args[0])
	if err != nil {
		return nil, err
	}
	out := make([]*ir.Node, len(v.Values))
	for i, el := range v.Values {
		res, err := runElement(prg, el)
		if err != nil {
			return nil, err
		}
		node, err := ir.FromAny(res)
		if err != nil {
			return nil, err
		}
		out[i] = node
	}
	return ir.FromSlice(out), nil
}

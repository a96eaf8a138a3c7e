package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmyersturnbull/tyranno/encode"
	"github.com/dmyersturnbull/tyranno/ir"
)

func init() {
	Register(&fn{name: "trim", apply: mapString(strings.TrimSpace)})
	Register(&fn{name: "lower", apply: mapString(strings.ToLower)})
	Register(&fn{name: "upper", apply: mapString(strings.ToUpper)})
	Register(&fn{name: "replace", minArgs: 2, maxArgs: 2,
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			return applyString(v, func(s string) string {
				return strings.ReplaceAll(s, args[0], args[1])
			})
		}})
	Register(&fn{name: "prepend", minArgs: 1, maxArgs: 1,
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			return applyString(v, func(s string) string { return args[0] + s })
		}})
	Register(&fn{name: "append", minArgs: 1, maxArgs: 1,
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			return applyString(v, func(s string) string { return s + args[0] })
		}})
	Register(&fn{name: "quote",
		apply: mapString(func(s string) string { return strconv.Quote(s) })})
	Register(&fn{name: "join", maxArgs: 1, apply: join})
	Register(&fn{name: "split", minArgs: 1, maxArgs: 1, apply: split})
}

// mapString lifts a string transform over a string node or elementwise
// over an array of strings.
func mapString(f func(string) string) func(*Evaluator, *ir.Node, []string) (*ir.Node, error) {
	return func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
		return applyString(v, f)
	}
}

func applyString(v *ir.Node, f func(string) string) (*ir.Node, error) {
	switch v.Type {
	case ir.StringType:
		return ir.FromString(f(v.String)), nil
	case ir.ArrayType:
		out := make([]*ir.Node, len(v.Values))
		for i, el := range v.Values {
			res, err := applyString(el, f)
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return ir.FromSlice(out), nil
	default:
		return nil, fmt.Errorf("%w: want string, got %s at %s", ErrBadArgs, v.Type, v.Path())
	}
}

func join(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	if v.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: join wants an array, got %s", ErrBadArgs, v.Type)
	}
	sep := ", "
	if len(args) == 1 {
		sep = args[0]
	}
	parts := make([]string, len(v.Values))
	for i, el := range v.Values {
		s, err := encode.ScalarString(el)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return ir.FromString(strings.Join(parts, sep)), nil
}

func split(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	if v.Type != ir.StringType {
		return nil, fmt.Errorf("%w: split wants a string, got %s", ErrBadArgs, v.Type)
	}
	return ir.FromStrings(strings.Split(v.String, args[0])), nil
}

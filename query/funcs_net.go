package query

import (
	"fmt"

	"github.com/dmyersturnbull/tyranno/ir"
)

func init() {
	Register(&fn{name: "pypi_versions", maxArgs: 1, source: true,
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			pkg, err := netArg(v, args)
			if err != nil {
				return nil, err
			}
			if ev.Releases == nil {
				return nil, fmt.Errorf("no package index client configured")
			}
			vs, err := ev.Releases.Versions(ev.ctx(), pkg)
			if err != nil {
				return nil, err
			}
			return ir.FromStrings(vs), nil
		}})
	Register(&fn{name: "pypi_data", maxArgs: 1, source: true,
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			pkg, err := netArg(v, args)
			if err != nil {
				return nil, err
			}
			if ev.Releases == nil {
				return nil, fmt.Errorf("no package index client configured")
			}
			return ev.Releases.Data(ev.ctx(), pkg)
		}})
	Register(&fn{name: "spdx_license", maxArgs: 1, source: true,
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			id, err := netArg(v, args)
			if err != nil {
				return nil, err
			}
			if ev.Releases == nil {
				return nil, fmt.Errorf("no license client configured")
			}
			return ev.Releases.License(ev.ctx(), id)
		}})
}

// netArg takes the name either as a literal argument or from the piped
// string value.
func netArg(v *ir.Node, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if v != nil && v.Type == ir.StringType {
		return v.String, nil
	}
	return "", fmt.Errorf("%w: want a name argument or a piped string", ErrBadArgs)
}

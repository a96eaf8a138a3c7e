package query

import (
	"fmt"

	"github.com/dmyersturnbull/tyranno/ir"
	"github.com/dmyersturnbull/tyranno/pep440"
)

func init() {
	Register(&fn{name: "pep440",
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			return applyString(v, normalizePEP440Panicless)
		}})
	Register(&fn{name: "pep440_max", apply: pickPEP440(pep440.Max)})
	Register(&fn{name: "pep440_min", apply: pickPEP440(pep440.Min)})
	Register(&fn{name: "pep440_ascending", apply: sortPEP440(false)})
	Register(&fn{name: "pep440_descending", apply: sortPEP440(true)})
	Register(&fn{name: "pep440_filter", minArgs: 1, maxArgs: 1, apply: filterPEP440})
}

func normalizePEP440Panicless(s string) string {
	v, err := pep440.Parse(s)
	if err != nil {
		return s
	}
	return v.String()
}

func versionsOf(v *ir.Node) ([]*pep440.Version, error) {
	if v.Type == ir.StringType {
		pv, err := pep440.Parse(v.String)
		if err != nil {
			return nil, err
		}
		return []*pep440.Version{pv}, nil
	}
	if v.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: want version string(s), got %s", ErrBadArgs, v.Type)
	}
	out := make([]*pep440.Version, 0, len(v.Values))
	for _, el := range v.Values {
		if el.Type != ir.StringType {
			return nil, fmt.Errorf("%w: want version string, got %s", ErrBadArgs, el.Type)
		}
		pv, err := pep440.Parse(el.String)
		if err != nil {
			return nil, err
		}
		out = append(out, pv)
	}
	return out, nil
}

func versionsNode(vs []*pep440.Version) *ir.Node {
	strs := make([]string, len(vs))
	for i, v := range vs {
		strs[i] = v.String()
	}
	return ir.FromStrings(strs)
}

func pickPEP440(pick func([]*pep440.Version) *pep440.Version) func(*Evaluator, *ir.Node, []string) (*ir.Node, error) {
	return func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
		vs, err := versionsOf(v)
		if err != nil {
			return nil, err
		}
		best := pick(vs)
		if best == nil {
			return nil, fmt.Errorf("%w: no versions", ErrBadArgs)
		}
		return ir.FromString(best.String()), nil
	}
}

func sortPEP440(descending bool) func(*Evaluator, *ir.Node, []string) (*ir.Node, error) {
	return func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
		vs, err := versionsOf(v)
		if err != nil {
			return nil, err
		}
		pep440.Sort(vs)
		if descending {
			for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
				vs[i], vs[j] = vs[j], vs[i]
			}
		}
		return versionsNode(vs), nil
	}
}

func filterPEP440(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	set, err := pep440.ParseSpecifier(args[0])
	if err != nil {
		return nil, err
	}
	vs, err := versionsOf(v)
	if err != nil {
		return nil, err
	}
	return versionsNode(set.Filter(vs)), nil
}

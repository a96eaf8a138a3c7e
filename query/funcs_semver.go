package query

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/dmyersturnbull/tyranno/ir"
)

func init() {
	Register(&fn{name: "semver",
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			return applySemver(v, func(sv *semver.Version) string { return sv.String() })
		}})
	Register(&fn{name: "semver_major",
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			return applySemver(v, func(sv *semver.Version) string {
				return fmt.Sprintf("%d", sv.Major())
			})
		}})
	Register(&fn{name: "semver_minor",
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			return applySemver(v, func(sv *semver.Version) string {
				return fmt.Sprintf("%d.%d", sv.Major(), sv.Minor())
			})
		}})
	Register(&fn{name: "semver_max", apply: pickSemver(func(a, b *semver.Version) bool {
		return a.GreaterThan(b)
	})})
	Register(&fn{name: "semver_min", apply: pickSemver(func(a, b *semver.Version) bool {
		return a.LessThan(b)
	})})
	Register(&fn{name: "semver_filter", minArgs: 1, maxArgs: 1, apply: filterSemver})
}

func applySemver(v *ir.Node, f func(*semver.Version) string) (*ir.Node, error) {
	var firstErr error
	res, err := applyString(v, func(s string) string {
		sv, err := semver.NewVersion(s)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%q: %w", s, err)
			}
			return s
		}
		return f(sv)
	})
	if err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return res, nil
}

func semversOf(v *ir.Node) ([]*semver.Version, error) {
	strs, err := stringsOf(v)
	if err != nil {
		return nil, err
	}
	out := make([]*semver.Version, len(strs))
	for i, s := range strs {
		sv, err := semver.NewVersion(s)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		out[i] = sv
	}
	return out, nil
}

func stringsOf(v *ir.Node) ([]string, error) {
	if v.Type == ir.StringType {
		return []string{v.String}, nil
	}
	if v.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: want string(s), got %s", ErrBadArgs, v.Type)
	}
	out := make([]string, len(v.Values))
	for i, el := range v.Values {
		if el.Type != ir.StringType {
			return nil, fmt.Errorf("%w: want string, got %s", ErrBadArgs, el.Type)
		}
		out[i] = el.String
	}
	return out, nil
}

func pickSemver(better func(a, b *semver.Version) bool) func(*Evaluator, *ir.Node, []string) (*ir.Node, error) {
	return func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
		svs, err := semversOf(v)
		if err != nil {
			return nil, err
		}
		if len(svs) == 0 {
			return nil, fmt.Errorf("%w: no versions", ErrBadArgs)
		}
		best := svs[0]
		for _, sv := range svs[1:] {
			if better(sv, best) {
				best = sv
			}
		}
		return ir.FromString(best.String()), nil
	}
}

func filterSemver(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	c, err := semver.NewConstraint(args[0])
	if err != nil {
		return nil, err
	}
	svs, err := semversOf(v)
	if err != nil {
		return nil, err
	}
	sort.Sort(semver.Collection(svs))
	var out []string
	for _, sv := range svs {
		if c.Check(sv) {
			out = append(out, sv.String())
		}
	}
	return ir.FromStrings(out), nil
}

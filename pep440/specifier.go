package pep440

import (
	"fmt"
	"strings"
)

// A Specifier is one comparison clause, e.g. ">=1.2" or "==1.4.*".
type Specifier struct {
	Op       string
	Version  *Version
	Wildcard bool
}

// A SpecifierSet is a comma-separated conjunction of clauses as used in
// dependency declarations, e.g. ">=1.2,<2.0".
type SpecifierSet []Specifier

var specOps = []string{"===", "==", "!=", "~=", ">=", "<=", ">", "<"}

func ParseSpecifier(s string) (SpecifierSet, error) {
	var set SpecifierSet
	for _, clause := range strings.Split(s, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		spec, err := parseClause(clause)
		if err != nil {
			return nil, err
		}
		set = append(set, spec)
	}
	return set, nil
}

func parseClause(clause string) (Specifier, error) {
	var op string
	for _, candidate := range specOps {
		if strings.HasPrefix(clause, candidate) {
			op = candidate
			break
		}
	}
	if op == "" {
		return Specifier{}, fmt.Errorf("specifier %q has no comparison operator", clause)
	}
	rest := strings.TrimSpace(clause[len(op):])
	wildcard := false
	if strings.HasSuffix(rest, ".*") {
		if op != "==" && op != "!=" {
			return Specifier{}, fmt.Errorf("wildcard only allowed with == and !=: %q", clause)
		}
		wildcard = true
		rest = strings.TrimSuffix(rest, ".*")
	}
	v, err := Parse(rest)
	if err != nil {
		return Specifier{}, err
	}
	if op == "~=" && len(v.Release) < 2 {
		return Specifier{}, fmt.Errorf("~= needs at least two release numbers: %q", clause)
	}
	return Specifier{Op: op, Version: v, Wildcard: wildcard}, nil
}

// Match reports whether v satisfies every clause in the set. An empty
// set matches everything.
func (set SpecifierSet) Match(v *Version) bool {
	for _, spec := range set {
		if !spec.Match(v) {
			return false
		}
	}
	return true
}

func (spec Specifier) Match(v *Version) bool {
	s := spec.Version
	switch spec.Op {
	case "==", "===":
		if spec.Wildcard {
			return prefixMatch(v, s)
		}
		return Compare(v, s) == 0
	case "!=":
		if spec.Wildcard {
			return !prefixMatch(v, s)
		}
		return Compare(v, s) != 0
	case ">":
		return Compare(v, s) > 0
	case "<":
		return Compare(v, s) < 0
	case ">=":
		return Compare(v, s) >= 0
	case "<=":
		return Compare(v, s) <= 0
	case "~=":
		// ~=X.Y means >=X.Y, ==X.* (drop the last release number).
		if Compare(v, s) < 0 {
			return false
		}
		upper := &Version{Epoch: s.Epoch, Release: s.Release[:len(s.Release)-1]}
		return prefixMatch(v, upper)
	default:
		return false
	}
}

func prefixMatch(v, prefix *Version) bool {
	if v.Epoch != prefix.Epoch {
		return false
	}
	for i := range prefix.Release {
		if v.releaseAt(i) != prefix.Release[i] {
			return false
		}
	}
	return true
}

// Filter returns the versions in vs that match the set, preserving
// order. Pre-releases are kept only when the set names one explicitly,
// matching pip's defaults.
func (set SpecifierSet) Filter(vs []*Version) []*Version {
	allowPre := false
	for _, spec := range set {
		if spec.Version.IsPrerelease() {
			allowPre = true
		}
	}
	var out []*Version
	for _, v := range vs {
		if v.IsPrerelease() && !allowPre {
			continue
		}
		if set.Match(v) {
			out = append(out, v)
		}
	}
	return out
}

func (set SpecifierSet) String() string {
	parts := make([]string, len(set))
	for i, spec := range set {
		suffix := ""
		if spec.Wildcard {
			suffix = ".*"
		}
		parts[i] = spec.Op + spec.Version.String() + suffix
	}
	return strings.Join(parts, ",")
}

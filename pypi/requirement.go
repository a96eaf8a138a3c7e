package pypi

import (
	"fmt"
	"strings"

	"github.com/dmyersturnbull/tyranno/pep440"
)

// A Requirement is one PEP 508 dependency declaration, parsed far
// enough to query an index: name, extras, version specifier, and the
// raw environment marker.
type Requirement struct {
	Raw    string
	Name   string
	Extras []string
	Spec   pep440.SpecifierSet
	Marker string
}

func ParseRequirement(raw string) (*Requirement, error) {
	r := &Requirement{Raw: raw}
	rest := strings.TrimSpace(raw)
	if rest == "" {
		return nil, fmt.Errorf("empty requirement")
	}
	if i := strings.IndexByte(rest, ';'); i >= 0 {
		r.Marker = strings.TrimSpace(rest[i+1:])
		rest = strings.TrimSpace(rest[:i])
	}
	if i := strings.IndexByte(rest, '['); i >= 0 {
		j := strings.IndexByte(rest, ']')
		if j < i {
			return nil, fmt.Errorf("unbalanced extras in %q", raw)
		}
		for _, e := range strings.Split(rest[i+1:j], ",") {
			if e = strings.TrimSpace(e); e != "" {
				r.Extras = append(r.Extras, e)
			}
		}
		rest = rest[:i] + rest[j+1:]
	}
	specStart := strings.IndexAny(rest, "<>=!~ (")
	if specStart < 0 {
		r.Name = strings.TrimSpace(rest)
		return r, nil
	}
	r.Name = strings.TrimSpace(rest[:specStart])
	if r.Name == "" {
		return nil, fmt.Errorf("requirement %q has no name", raw)
	}
	spec := strings.TrimSpace(rest[specStart:])
	spec = strings.TrimPrefix(spec, "(")
	spec = strings.TrimSuffix(spec, ")")
	if spec != "" {
		set, err := pep440.ParseSpecifier(spec)
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", raw, err)
		}
		r.Spec = set
	}
	return r, nil
}

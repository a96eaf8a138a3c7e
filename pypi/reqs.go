package pypi

import (
	"context"

	"github.com/dmyersturnbull/tyranno/pep440"
)

// A Report compares one declared requirement against the index.
type Report struct {
	Req      *Requirement
	Matching string // newest version satisfying the specifier
	Latest   string // newest version overall
}

func (r *Report) Outdated() bool {
	return r.Latest != "" && r.Latest != r.Matching
}

// Check queries the index for each declared requirement. A package
// whose fetch fails aborts the whole check.
func (c *Client) Check(ctx context.Context, declared []string) ([]*Report, error) {
	res := make([]*Report, 0, len(declared))
	for _, raw := range declared {
		req, err := ParseRequirement(raw)
		if err != nil {
			return nil, err
		}
		versions, err := c.Versions(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		rep := &Report{Req: req}
		var all, matching []*pep440.Version
		for _, s := range versions {
			v, err := pep440.Parse(s)
			if err != nil {
				continue
			}
			all = append(all, v)
		}
		matching = req.Spec.Filter(all)
		if v := pep440.Max(matching); v != nil {
			rep.Matching = v.String()
		}
		// The headline "latest" skips pre-releases.
		if v := pep440.Max(pep440.SpecifierSet(nil).Filter(all)); v != nil {
			rep.Latest = v.String()
		}
		res = append(res, rep)
	}
	return res, nil
}

package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/dmyersturnbull/tyranno/pep440"
	"github.com/dmyersturnbull/tyranno/pypi"
)

func runReq(cfg *ReqConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Req.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: req takes exactly one package", cli.ErrUsage)
	}
	pkg := args[0]
	// If the package is declared, use its specifier to mark matches.
	var spec pep440.SpecifierSet
	if cx, err := cfg.load(); err == nil {
		if declared, err := dependencies(cx.Doc); err == nil {
			for _, raw := range declared {
				req, err := pypi.ParseRequirement(raw)
				if err == nil && req.Name == pkg {
					spec = req.Spec
					break
				}
			}
		}
	}
	versions, err := pypi.NewClient().Versions(context.Background(), pkg)
	if err != nil {
		return err
	}
	for _, s := range versions {
		v, err := pep440.Parse(s)
		if err != nil {
			continue
		}
		switch {
		case len(spec) > 0 && spec.Match(v):
			fmt.Fprintf(cc.Out, "%s  (matches %s)\n", s, spec)
		default:
			fmt.Fprintln(cc.Out, s)
		}
	}
	return nil
}

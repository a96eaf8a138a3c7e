package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"

	"github.com/dmyersturnbull/tyranno/ir"
	"github.com/dmyersturnbull/tyranno/pypi"
)

func runReqs(cfg *ReqsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Reqs.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: reqs takes no arguments", cli.ErrUsage)
	}
	cx, err := cfg.load()
	if err != nil {
		return err
	}
	declared, err := dependencies(cx.Doc)
	if err != nil {
		return err
	}
	reports, err := pypi.NewClient().Check(context.Background(), declared)
	if err != nil {
		return err
	}
	if cfg.JSONPatch {
		return writeMergePatch(cc, declared, reports)
	}
	for _, rep := range reports {
		line := fmt.Sprintf("%-30s %-20s matching=%s latest=%s",
			rep.Req.Name, rep.Req.Spec, rep.Matching, rep.Latest)
		if rep.Outdated() {
			line += "  (outdated)"
		}
		fmt.Fprintln(cc.Out, line)
	}
	return nil
}

func dependencies(doc *ir.Node) ([]string, error) {
	deps := doc.GetKey("project.dependencies")
	if deps == nil {
		return nil, fmt.Errorf("no project.dependencies in metadata")
	}
	return ir.Strings(deps)
}

// writeMergePatch emits an RFC 7386 merge patch replacing
// project.dependencies with updated declarations.
func writeMergePatch(cc *cli.Context, declared []string, reports []*pypi.Report) error {
	updated := make([]string, len(declared))
	changed := false
	for i, rep := range reports {
		updated[i] = declared[i]
		if rep.Outdated() {
			updated[i] = updatedRequirement(rep)
			changed = changed || updated[i] != declared[i]
		}
	}
	if !changed {
		fmt.Fprintln(cc.Out, "{}")
		return nil
	}
	oldDoc, err := json.Marshal(map[string]any{
		"project": map[string]any{"dependencies": declared},
	})
	if err != nil {
		return err
	}
	newDoc, err := json.Marshal(map[string]any{
		"project": map[string]any{"dependencies": updated},
	})
	if err != nil {
		return err
	}
	patch, err := jsonpatch.CreateMergePatch(oldDoc, newDoc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cc.Out, string(patch))
	return nil
}

// updatedRequirement proposes a new floor at the latest version,
// keeping extras and markers.
func updatedRequirement(rep *pypi.Report) string {
	var b strings.Builder
	b.WriteString(rep.Req.Name)
	if len(rep.Req.Extras) > 0 {
		b.WriteString("[" + strings.Join(rep.Req.Extras, ",") + "]")
	}
	b.WriteString(" >=" + rep.Latest)
	if rep.Req.Marker != "" {
		b.WriteString(" ; " + rep.Req.Marker)
	}
	return b.String()
}

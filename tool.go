// Package tyranno keeps project metadata synchronized across text
// files via ::tyranno:: comment directives. This package is the
// embedding API; the cmd/tyranno CLI is a thin wrapper around it.
package tyranno

import (
	"context"

	"go.uber.org/zap"

	"github.com/dmyersturnbull/tyranno/config"
	"github.com/dmyersturnbull/tyranno/pypi"
	"github.com/dmyersturnbull/tyranno/query"
	"github.com/dmyersturnbull/tyranno/syncer"
)

const Version = "0.1.0"

// Options control one Sync invocation.
type Options struct {
	DryRun bool
	Backup bool
	Log    *zap.SugaredLogger
}

// Sync loads the config under dir, discovers targets, and rewrites
// their directive-owned regions. It returns the per-run summary.
func Sync(ctx context.Context, dir string, opts Options) (*syncer.Summary, error) {
	cx, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	targets, err := cx.FindTargets()
	if err != nil {
		return nil, err
	}
	ev := query.New(cx.Doc)
	ev.Releases = pypi.NewClient()
	s := &syncer.Syncer{
		Eval:    ev,
		Root:    cx.Root,
		Targets: targets,
		DryRun:  opts.DryRun,
		Backup:  opts.Backup,
		BakDir:  cx.BakDir(),
		Log:     opts.Log,
	}
	summary, _, err := s.Run(ctx)
	return summary, err
}

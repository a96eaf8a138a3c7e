package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmyersturnbull/tyranno/debug"
	"github.com/dmyersturnbull/tyranno/parse"
	"github.com/dmyersturnbull/tyranno/query"
	"github.com/dmyersturnbull/tyranno/scan"
)

// A Syncer runs one sync invocation over a frozen set of target files.
type Syncer struct {
	Eval    *query.Evaluator
	Root    string   // absolute repo dir
	Targets []string // paths relative to Root
	DryRun  bool
	Backup  bool
	BakDir  string // absolute; used when Backup is set
	Log     *zap.SugaredLogger
}

// A Result is one file's evaluated outcome, before any write.
type Result struct {
	Path    string // relative to Root
	OldText string
	NewText string
	Blocks  []*DeltaBlock
}

func (r *Result) Changed() bool {
	return r.NewText != r.OldText
}

type Summary struct {
	Files        int
	ChangedFiles int
	Blocks       int
	ChangedLines int
}

func (s *Syncer) log() *zap.SugaredLogger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop().Sugar()
}

// Run evaluates every target and then commits the changed files. Any
// error during evaluation aborts before a single write.
func (s *Syncer) Run(ctx context.Context) (*Summary, []*Result, error) {
	aliases, err := s.CollectAliases()
	if err != nil {
		return nil, nil, err
	}
	ev := *s.Eval
	ev.Ctx = ctx
	ev.Aliases = aliases
	results := make([]*Result, len(s.Targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, target := range s.Targets {
		g.Go(func() error {
			res, err := s.evalFile(&ev, target)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	summary := &Summary{}
	for _, res := range results {
		summary.Files++
		summary.Blocks += len(res.Blocks)
		for _, b := range res.Blocks {
			summary.ChangedLines += b.Modified()
		}
		if !res.Changed() {
			continue
		}
		summary.ChangedFiles++
		if s.DryRun {
			s.log().Infof("would update %s", res.Path)
			continue
		}
		if err := s.commit(res); err != nil {
			return nil, nil, err
		}
		s.log().Infof("updated %s (%d regions)", res.Path, len(res.Blocks))
	}
	return summary, results, nil
}

// CollectAliases scans every target for alias declarations. A name
// declared twice is fatal.
func (s *Syncer) CollectAliases() (map[string]string, error) {
	aliases := map[string]string{}
	where := map[string]string{}
	for _, target := range s.Targets {
		lines, _, err := readLines(filepath.Join(s.Root, target))
		if err != nil {
			return nil, err
		}
		ds, err := scan.File(target, lines)
		if err != nil {
			return nil, err
		}
		for _, d := range ds {
			if d.Kind != scan.Alias {
				continue
			}
			if prev, ok := where[d.Name]; ok {
				return nil, fmt.Errorf("alias %q declared at both %s and %s:%d",
					d.Name, prev, d.File, d.Line)
			}
			aliases[d.Name] = d.Expr
			where[d.Name] = fmt.Sprintf("%s:%d", d.File, d.Line)
		}
	}
	return aliases, nil
}

func (s *Syncer) evalFile(ev *query.Evaluator, target string) (*Result, error) {
	abs := filepath.Join(s.Root, target)
	lines, text, err := readLines(abs)
	if err != nil {
		return nil, err
	}
	res := &Result{Path: target, OldText: text, NewText: text}
	ds, err := scan.File(target, lines)
	if err != nil {
		return nil, err
	}
	if len(ds) == 0 {
		return res, nil
	}
	fileEv := ev
	if root, ok, err := parse.ParseFile(abs); err == nil && ok {
		fileEv = ev.WithFileRoot(root)
	}
	newLines, blocks, err := rewriteLines(target, lines, ds, fileEv)
	if err != nil {
		return nil, err
	}
	res.NewText = strings.Join(newLines, "\n")
	res.Blocks = blocks
	if debug.Sync() {
		debug.Logf("%s: %d directives, %d regions, changed=%v\n",
			target, len(ds), len(blocks), res.Changed())
	}
	return res, nil
}

// commit writes the new content through a temp file in the same
// directory and renames it over the original, preserving the mode.
func (s *Syncer) commit(res *Result) error {
	abs := filepath.Join(s.Root, res.Path)
	if s.Backup {
		if err := s.backup(res); err != nil {
			return err
		}
	}
	st, err := os.Stat(abs)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(abs), ".~"+filepath.Base(abs)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(st.Mode().Perm()); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.WriteString(res.NewText); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), abs)
}

func (s *Syncer) backup(res *Result) error {
	dst := filepath.Join(s.BakDir, res.Path)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, []byte(res.OldText), 0o644)
}

// readLines splits a file on newlines; joining the result with "\n"
// reproduces the exact bytes.
func readLines(path string) ([]string, string, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	text := string(d)
	return strings.Split(text, "\n"), text, nil
}

package config

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FindTargets walks the repo and returns the relative paths matching
// tool.tyranno.targets, excluding gitignored paths, the .git dir, and
// the work dir. The result is sorted and recomputed on every call.
func (cc *Context) FindTargets() ([]string, error) {
	include := gitignore.NewMatcher(parsePatterns(cc.Targets))
	exclude := gitignore.NewMatcher(cc.excludePatterns())
	workDirName := filepath.Base(cc.WorkDir)
	var res []string
	err := filepath.WalkDir(cc.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(cc.Root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == workDirName || exclude.Match(parts, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if exclude.Match(parts, false) {
			return nil
		}
		if include.Match(parts, false) {
			res = append(res, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(res)
	return res, nil
}

func (cc *Context) excludePatterns() []gitignore.Pattern {
	f, err := os.Open(filepath.Join(cc.Root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()
	var ps []gitignore.Pattern
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}
	return ps
}

func parsePatterns(globs []string) []gitignore.Pattern {
	ps := make([]gitignore.Pattern, 0, len(globs))
	for _, g := range globs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(g, nil))
	}
	return ps
}

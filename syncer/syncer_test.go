package syncer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dmyersturnbull/tyranno/ir"
	"github.com/dmyersturnbull/tyranno/query"
)

func testEvaluator(t *testing.T) *query.Evaluator {
	t.Helper()
	doc, err := ir.FromAny(map[string]any{
		"project": map[string]any{
			"name":     "cicada",
			"version":  "1.2.3",
			"keywords": []string{"bio", "chem"},
		},
		"tool": map[string]any{
			"tyranno": map[string]any{
				"data": map[string]any{"vendor": "acme"},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return query.New(doc)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newSyncer(t *testing.T, files map[string]string) *Syncer {
	root := writeFiles(t, files)
	targets := make([]string, 0, len(files))
	for name := range files {
		targets = append(targets, name)
	}
	return &Syncer{Eval: testEvaluator(t), Root: root, Targets: targets}
}

func readBack(t *testing.T, s *Syncer, name string) string {
	t.Helper()
	d, err := os.ReadFile(filepath.Join(s.Root, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(d)
}

func TestInlineReplacesFollowingLine(t *testing.T) {
	s := newSyncer(t, map[string]string{
		"f.toml": "# ::tyranno:: version = \"$<<project.version>>\"\nversion = \"0.0.0\"\nname = \"x\"\n",
	})
	if _, _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := "# ::tyranno:: version = \"$<<project.version>>\"\nversion = \"1.2.3\"\nname = \"x\"\n"
	if diff := cmp.Diff(want, readBack(t, s, "f.toml")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestConsecutiveInlinesOwnOneLineEach(t *testing.T) {
	s := newSyncer(t, map[string]string{
		"f.yaml": strings.Join([]string{
			"# ::tyranno:: name: $<<project.name>>",
			"# ::tyranno:: vendor: $<<~.vendor>>",
			"name: old",
			"vendor: old",
			"tail: kept",
			"",
		}, "\n"),
	})
	if _, _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"# ::tyranno:: name: $<<project.name>>",
		"# ::tyranno:: vendor: $<<~.vendor>>",
		"name: cicada",
		"vendor: acme",
		"tail: kept",
		"",
	}, "\n")
	if diff := cmp.Diff(want, readBack(t, s, "f.yaml")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBlockReplacesInterior(t *testing.T) {
	s := newSyncer(t, map[string]string{
		"f.yaml": strings.Join([]string{
			"# ::tyranno start:: $<<project.keywords | lines>>",
			"stale1",
			"stale2",
			"stale3",
			"# ::tyranno end::",
			"",
		}, "\n"),
	})
	_, results, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"# ::tyranno start:: $<<project.keywords | lines>>",
		"bio",
		"chem",
		"# ::tyranno end::",
		"",
	}, "\n")
	if diff := cmp.Diff(want, readBack(t, s, "f.yaml")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if len(results) != 1 || len(results[0].Blocks) != 1 {
		t.Fatalf("results: %+v", results)
	}
	b := results[0].Blocks[0]
	if b.Kind != "block" || len(b.OldLines) != 3 || len(b.NewLines) != 2 {
		t.Errorf("block delta: %+v", b)
	}
}

func TestIdempotence(t *testing.T) {
	s := newSyncer(t, map[string]string{
		"f.toml": "# ::tyranno:: v = \"$<<project.version>>\"\nv = \"0\"\n",
		"g.md":   "<!-- ::tyranno:: # $<<project.name>> -->\n# old\n",
	})
	if _, _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := map[string]string{
		"f.toml": readBack(t, s, "f.toml"),
		"g.md":   readBack(t, s, "g.md"),
	}
	summary, _, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.ChangedFiles != 0 {
		t.Errorf("second run changed %d files", summary.ChangedFiles)
	}
	for name, content := range first {
		if got := readBack(t, s, name); got != content {
			t.Errorf("%s not idempotent", name)
		}
	}
}

func TestNoWriteWhenUnchanged(t *testing.T) {
	s := newSyncer(t, map[string]string{
		"f.toml": "# ::tyranno:: v = \"$<<project.version>>\"\nv = \"1.2.3\"\n",
	})
	path := filepath.Join(s.Root, "f.toml")
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("unchanged file was rewritten")
	}
}

func TestUndefinedKeyAbortsWithoutWrites(t *testing.T) {
	s := newSyncer(t, map[string]string{
		"good.toml": "# ::tyranno:: v = \"$<<project.version>>\"\nv = \"0\"\n",
		"bad.toml":  "# ::tyranno:: x = \"$<<project.missing>>\"\nx = \"0\"\n",
	})
	_, _, err := s.Run(context.Background())
	var rerr *query.ResolveError
	if !errors.As(err, &rerr) {
		t.Fatalf("want *ResolveError, got %v", err)
	}
	if rerr.File != "bad.toml" || rerr.Line != 1 {
		t.Errorf("error location: %s:%d", rerr.File, rerr.Line)
	}
	if got := readBack(t, s, "good.toml"); !strings.Contains(got, `v = "0"`) {
		t.Error("a failing run must not modify other files")
	}
}

func TestAliasAcrossFiles(t *testing.T) {
	s := newSyncer(t, map[string]string{
		// The reference comes before the declaration in target order.
		"a_use.toml":  "# ::tyranno:: v = \"$<<semver>>\"\nv = \"0\"\n",
		"z_decl.toml": "# ::tyranno alias:: semver = project.version | semver\nok = true\n",
	})
	s.Targets = []string{"a_use.toml", "z_decl.toml"}
	if _, _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := readBack(t, s, "a_use.toml"); !strings.Contains(got, `v = "1.2.3"`) {
		t.Errorf("alias not applied: %q", got)
	}
}

func TestDuplicateAliasFatal(t *testing.T) {
	s := newSyncer(t, map[string]string{
		"a.toml": "# ::tyranno alias:: v = project.version\n",
		"b.toml": "# ::tyranno alias:: v = project.name\n",
	})
	s.Targets = []string{"a.toml", "b.toml"}
	if _, _, err := s.Run(context.Background()); err == nil {
		t.Fatal("duplicate alias should be fatal")
	}
}

func TestUnbalancedBlockFatal(t *testing.T) {
	s := newSyncer(t, map[string]string{
		"f.yaml": "# ::tyranno start:: x\nnever closed\n",
	})
	_, _, err := s.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "f.yaml:1") {
		t.Fatalf("want parse error naming f.yaml:1, got %v", err)
	}
}

func TestFileRootPaths(t *testing.T) {
	s := newSyncer(t, map[string]string{
		"f.toml": "name = \"local\"\n# ::tyranno:: copy = \"$<<^.name>>\"\ncopy = \"\"\n",
	})
	if _, _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := readBack(t, s, "f.toml"); !strings.Contains(got, `copy = "local"`) {
		t.Errorf("got %q", got)
	}
}

func TestDryRun(t *testing.T) {
	content := "# ::tyranno:: v = \"$<<project.version>>\"\nv = \"0\"\n"
	s := newSyncer(t, map[string]string{"f.toml": content})
	s.DryRun = true
	summary, _, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.ChangedFiles != 1 {
		t.Errorf("ChangedFiles = %d", summary.ChangedFiles)
	}
	if got := readBack(t, s, "f.toml"); got != content {
		t.Error("dry run must not write")
	}
}

func TestBackup(t *testing.T) {
	content := "# ::tyranno:: v = \"$<<project.version>>\"\nv = \"0\"\n"
	s := newSyncer(t, map[string]string{"sub/f.toml": content})
	s.Backup = true
	s.BakDir = filepath.Join(s.Root, ".tyranno", "sync-bak")
	if _, _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	bak, err := os.ReadFile(filepath.Join(s.BakDir, "sub", "f.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(bak) != content {
		t.Error("backup should hold the pre-sync content")
	}
}

func TestWriteDiff(t *testing.T) {
	var buf strings.Builder
	res := &Result{Path: "f.toml", OldText: "a\nb\nc", NewText: "a\nB\nc"}
	if err := WriteDiff(&buf, res); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"--- f.toml", "-b", "+B", " a"} {
		if !strings.Contains(out, want) {
			t.Errorf("diff output missing %q in:\n%s", want, out)
		}
	}
}

func TestInlineMultilineResultFatal(t *testing.T) {
	orig := "# ::tyranno:: $<<project.keywords | lines>>\nbio\n"
	s := newSyncer(t, map[string]string{"f.cfg": orig})
	_, _, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for a multi-line inline result")
	}
	if !strings.Contains(err.Error(), "f.cfg:1") {
		t.Errorf("error should name the directive: %v", err)
	}
	if !strings.Contains(err.Error(), "start/end block") {
		t.Errorf("error should point at block directives: %v", err)
	}
	if got := readBack(t, s, "f.cfg"); got != orig {
		t.Errorf("file was modified on a failed run:\n%s", got)
	}
}

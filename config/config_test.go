package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testConfig = `
[project]
name = "cicada"
version = "1.2.3"

[tool.tyranno]
targets = ["*.md", "src/**/*.py", "pyproject.toml"]

[tool.tyranno.data]
vendor = "acme"
`

func writeTree(t *testing.T, files map[string]string) string {
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

func TestLoad(t *testing.T) {
	root := writeTree(t, map[string]string{"pyproject.toml": testConfig})
	cc, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if cc.ConfigPath != filepath.Join(root, "pyproject.toml") {
		t.Errorf("ConfigPath = %s", cc.ConfigPath)
	}
	if got := cc.Doc.GetKey("project.name"); got == nil || got.String != "cicada" {
		t.Errorf("project.name = %v", got)
	}
	if got := cc.Doc.GetKey("tool.tyranno.data.vendor"); got == nil || got.String != "acme" {
		t.Errorf("vendor = %v", got)
	}
	want := []string{"*.md", "src/**/*.py", "pyproject.toml"}
	if diff := cmp.Diff(want, cc.Targets); diff != "" {
		t.Errorf("Targets (-want +got):\n%s", diff)
	}
	if cc.WorkDir != filepath.Join(root, ".tyranno") {
		t.Errorf("WorkDir = %s", cc.WorkDir)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pyproject.toml": testConfig,
		".tyranno.toml":  "[tool.tyranno]\ntargets = []\n",
	})
	cc, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(cc.ConfigPath) != ".tyranno.toml" {
		t.Errorf("search order: got %s", cc.ConfigPath)
	}
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("missing config should fail")
	}
}

func TestDirNameEnv(t *testing.T) {
	t.Setenv(EnvDir, ".custom")
	root := writeTree(t, map[string]string{"pyproject.toml": testConfig})
	cc, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if cc.WorkDir != filepath.Join(root, ".custom") {
		t.Errorf("WorkDir = %s", cc.WorkDir)
	}
}

func TestFindTargets(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pyproject.toml":    testConfig,
		"README.md":         "x",
		"docs/guide.md":     "x",
		"src/pkg/a.py":      "x",
		"src/pkg/b.txt":     "x",
		"build/out.md":      "x",
		".gitignore":        "build/\n",
		".git/config":       "x",
		".tyranno/cache":    "x",
	})
	cc, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	got, err := cc.FindTargets()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"README.md", "docs/guide.md", "pyproject.toml", "src/pkg/a.py"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindTargets (-want +got):\n%s", diff)
	}
}

func TestColorize(t *testing.T) {
	t.Setenv(EnvColorize, "true")
	force, auto := Colorize()
	if !force || auto {
		t.Errorf("true: force=%v auto=%v", force, auto)
	}
	t.Setenv(EnvColorize, "false")
	force, auto = Colorize()
	if force || auto {
		t.Errorf("false: force=%v auto=%v", force, auto)
	}
	t.Setenv(EnvColorize, "")
	if _, auto = Colorize(); !auto {
		t.Error("unset should be auto")
	}
}

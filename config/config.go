// Package config loads the metadata document and the per-repo and
// per-environment settings that drive a sync run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/dmyersturnbull/tyranno/ir"
	"github.com/dmyersturnbull/tyranno/parse"
)

// Config files are tried in order; the first one found wins.
var ConfigFileNames = []string{".tyranno.toml", "tyranno.toml", "pyproject.toml"}

const (
	EnvDir      = "TYRANNO_DIR"
	EnvCacheDir = "TYRANNO_CACHE_DIR"
	EnvColorize = "TYRANNO_COLORIZE"

	DefaultDirName = ".tyranno"
)

// A Context is everything fixed for one invocation: the parsed
// metadata document, the repo root, and the resolved directories.
type Context struct {
	Root       string // absolute repo dir
	ConfigPath string // absolute path of the loaded config file
	Doc        *ir.Node
	WorkDir    string // absolute, default <root>/.tyranno
	CacheDir   string // absolute
	Targets    []string
}

// Load finds and parses the config file under dir.
func Load(dir string) (*Context, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	path, err := findConfig(root)
	if err != nil {
		return nil, err
	}
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := parse.Parse(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cc := &Context{
		Root:       root,
		ConfigPath: path,
		Doc:        doc,
		WorkDir:    filepath.Join(root, dirName()),
		CacheDir:   cacheDir(),
	}
	if targets := doc.GetKey("tool.tyranno.targets"); targets != nil {
		cc.Targets, err = ir.Strings(targets)
		if err != nil {
			return nil, fmt.Errorf("tool.tyranno.targets: %w", err)
		}
	}
	return cc, nil
}

func findConfig(root string) (string, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(root, name)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("no config file in %s (tried %v)", root, ConfigFileNames)
}

func dirName() string {
	if v := os.Getenv(EnvDir); v != "" {
		return v
	}
	return DefaultDirName
}

func cacheDir() string {
	if v := os.Getenv(EnvCacheDir); v != "" {
		return v
	}
	return filepath.Join(xdg.CacheHome, "tyranno")
}

// BakDir is where sync --backup keeps pre-sync copies.
func (cc *Context) BakDir() string {
	return filepath.Join(cc.WorkDir, "sync-bak")
}

// Colorize interprets TYRANNO_COLORIZE: "true", "false", or anything
// else (including unset) for auto-detection.
func Colorize() (force, auto bool) {
	switch os.Getenv(EnvColorize) {
	case "true", "1", "yes":
		return true, false
	case "false", "0", "no":
		return false, false
	default:
		return false, true
	}
}

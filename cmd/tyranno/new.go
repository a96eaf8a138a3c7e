package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/dmyersturnbull/tyranno/query"
)

const pyprojectTemplate = `[project]
name = "%s"
version = "0.0.1"
requires-python = ">=3.12"
license = { text = "%s" }
dependencies = []

[tool.tyranno]
targets = ["*.md", "*.toml", "*.yaml", "src/**/*.py", "NOTICE"]

[tool.tyranno.data]
vendor = "%s"
`

const readmeTemplate = `<!-- ::tyranno:: # $<<project.name>> -->
# %s

<!-- ::tyranno:: Version $<<project.version>>, under the $<<$.project.license.text>> license. -->
Version 0.0.1, under the %s license.
`

const noticeTemplate = `# ::tyranno:: $<<project.name>>
%s
# ::tyranno:: Copyright $<<now_utc().year>> $<<~.vendor>>
Copyright %s %s
# ::tyranno:: SPDX-License-Identifier: $<<$.project.license.text>>
SPDX-License-Identifier: %s
`

func runNew(cfg *NewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.New.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: new takes exactly one directory", cli.ErrUsage)
	}
	dir := args[0]
	name := cfg.Name
	if name == "" {
		name = filepath.Base(dir)
	}
	license := cfg.License
	if license == "" {
		license = "Apache-2.0"
	}
	if st, err := os.Stat(dir); err == nil && st.IsDir() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			return fmt.Errorf("directory %s is not empty", dir)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "src", strings.ReplaceAll(name, "-", "_")), 0o755); err != nil {
		return err
	}
	vendor := os.Getenv("USER")
	if vendor == "" {
		vendor = name
	}
	files := map[string]string{
		"pyproject.toml": fmt.Sprintf(pyprojectTemplate, name, license, vendor),
		"README.md":      fmt.Sprintf(readmeTemplate, name, license),
	}
	if cfg.Notice {
		year, err := noticeYear()
		if err != nil {
			return err
		}
		files["NOTICE"] = fmt.Sprintf(noticeTemplate, name, year, vendor, license)
	}
	for rel, content := range files {
		if err := os.WriteFile(filepath.Join(dir, rel), []byte(content), 0o644); err != nil {
			return err
		}
	}
	cfg.Log.Infof("created %s (%s, %s)", dir, name, license)
	fmt.Fprintf(cc.Out, "created %s; run 'tyranno sync' there after editing pyproject.toml\n", dir)
	return nil
}

// noticeYear renders the current year through the expression engine,
// the same way later syncs will refresh it.
func noticeYear() (string, error) {
	ev := query.New(nil)
	node, err := ev.Resolve("now_utc().year")
	if err != nil {
		return "", err
	}
	return node.String, nil
}

package main

import (
	"github.com/scott-cotton/cli"
	"go.uber.org/zap"

	"github.com/dmyersturnbull/tyranno/config"
)

type MainConfig struct {
	Dir     string `cli:"name=C desc='run as if invoked from this directory'"`
	DryRun  bool   `cli:"name=dry-run desc='evaluate everything but write nothing'"`
	NoColor bool   `cli:"name=no-color desc='disable colored output'"`
	Verbose bool   `cli:"name=v aliases=verbose desc='log debug detail'"`
	Quiet   bool   `cli:"name=q aliases=quiet desc='log only warnings and errors'"`

	Log  *zap.SugaredLogger
	Main *cli.Command
}

func (cfg *MainConfig) verbosity() int {
	v := 0
	if cfg.Verbose {
		v++
	}
	if cfg.Quiet {
		v--
	}
	return v
}

func (cfg *MainConfig) dir() string {
	if cfg.Dir != "" {
		return cfg.Dir
	}
	return "."
}

func (cfg *MainConfig) load() (*config.Context, error) {
	return config.Load(cfg.dir())
}

type SyncConfig struct {
	*MainConfig
	Diff   bool `cli:"name=diff desc='print a colored diff of every change'"`
	Backup bool `cli:"name=backup desc='copy originals into .tyranno/sync-bak first'"`
	Watch  bool `cli:"name=watch desc='re-run whenever the metadata file changes'"`

	Sync *cli.Command
}

type ReqsConfig struct {
	*MainConfig
	JSONPatch bool `cli:"name=json-patch desc='emit a JSON merge patch of the updates'"`

	Reqs *cli.Command
}

type ReqConfig struct {
	*MainConfig

	Req *cli.Command
}

type NewConfig struct {
	*MainConfig
	Name    string `cli:"name=name desc='project name (default: directory basename)'"`
	License string `cli:"name=license desc='SPDX license id'"`
	Notice  bool   `cli:"name=notice desc='also write a NOTICE file'"`

	New *cli.Command
}

type InfoConfig struct {
	*MainConfig

	Info *cli.Command
}

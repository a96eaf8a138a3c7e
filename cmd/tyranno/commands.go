package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "tyranno").
		WithSynopsis("tyranno [opts] command [opts]").
		WithDescription("tyranno keeps project metadata in sync with ::tyranno:: comment directives.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tyrannoMain(cfg, cc, args)
		}).
		WithSubs(
			SyncCommand(cfg),
			ReqsCommand(cfg),
			ReqCommand(cfg),
			NewCommand(cfg),
			InfoCommand(cfg))
}

func SyncCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SyncConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Sync, "sync").
		WithAliases("s").
		WithSynopsis("sync [-diff] [-backup] [-watch]").
		WithDescription("Rewrite the directive-owned regions of all target files.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runSync(cfg, cc, args)
		})
}

func ReqsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ReqsConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Reqs, "reqs").
		WithSynopsis("reqs [-json-patch]").
		WithDescription("List declared dependencies with newer matching versions from PyPI.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runReqs(cfg, cc, args)
		})
}

func ReqCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ReqConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Req, "req").
		WithSynopsis("req <package>").
		WithDescription("Show the available versions of one package.").
		WithRun(func(cc *cli.Context, args []string) error {
			return runReq(cfg, cc, args)
		})
}

func NewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &NewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.New, "new").
		WithSynopsis("new [-name <name>] [-license <spdx-id>] [-notice] <dir>").
		WithDescription("Scaffold a minimal project with tool.tyranno metadata.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runNew(cfg, cc, args)
		})
}

func InfoCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &InfoConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Info, "info").
		WithSynopsis("info").
		WithDescription("Print the tool name and version.").
		WithRun(func(cc *cli.Context, args []string) error {
			return runInfo(cfg, cc, args)
		})
}

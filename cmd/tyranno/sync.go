package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"

	"github.com/dmyersturnbull/tyranno/pypi"
	"github.com/dmyersturnbull/tyranno/query"
	"github.com/dmyersturnbull/tyranno/syncer"
)

const watchDebounce = 250 * time.Millisecond

func runSync(cfg *SyncConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Sync.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: sync takes no arguments", cli.ErrUsage)
	}
	if !cfg.Watch {
		return syncOnce(context.Background(), cfg, cc)
	}
	// Keep a diagnostics agent up while running unattended.
	if err := agent.Listen(agent.Options{}); err != nil {
		fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
	}
	defer agent.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cx, err := cfg.load()
	if err != nil {
		return err
	}
	if err := syncOnce(ctx, cfg, cc); err != nil {
		cfg.Log.Errorf("sync failed: %v", err)
	}
	cfg.Log.Infof("watching %s", cx.ConfigPath)
	err = syncer.Watch(ctx, cx.ConfigPath, watchDebounce, cfg.Log,
		func(ctx context.Context) error {
			return syncOnce(ctx, cfg, cc)
		})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func syncOnce(ctx context.Context, cfg *SyncConfig, cc *cli.Context) error {
	cx, err := cfg.load()
	if err != nil {
		return err
	}
	targets, err := cx.FindTargets()
	if err != nil {
		return err
	}
	ev := query.New(cx.Doc)
	ev.Releases = pypi.NewClient()
	s := &syncer.Syncer{
		Eval:    ev,
		Root:    cx.Root,
		Targets: targets,
		DryRun:  cfg.DryRun,
		Backup:  cfg.Backup,
		BakDir:  cx.BakDir(),
		Log:     cfg.Log,
	}
	summary, results, err := s.Run(ctx)
	if err != nil {
		return err
	}
	if cfg.Diff {
		for _, res := range results {
			if err := syncer.WriteDiff(cc.Out, res); err != nil {
				return err
			}
		}
	}
	cfg.Log.Infof("synced %d files: %d changed (%d regions, %d lines)",
		summary.Files, summary.ChangedFiles, summary.Blocks, summary.ChangedLines)
	return nil
}

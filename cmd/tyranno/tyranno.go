package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/dmyersturnbull/tyranno/config"
)

func tyrannoMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	setupColor(cfg)
	cfg.Log, err = buildLogger(cfg.verbosity())
	if err != nil {
		return err
	}
	defer cfg.Log.Sync()
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// setupColor resolves --no-color, TYRANNO_COLORIZE, and tty detection
// into the color package's global switch.
func setupColor(cfg *MainConfig) {
	if cfg.NoColor {
		color.NoColor = true
		return
	}
	force, auto := config.Colorize()
	if !auto {
		color.NoColor = !force
		return
	}
	color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())
}

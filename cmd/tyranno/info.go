package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/dmyersturnbull/tyranno"
)

func runInfo(cfg *InfoConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Info.Parse(cc, args); err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "tyranno %s\n", tyranno.Version)
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/errlens/internal/cli"
	"github.com/vburojevic/errlens/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI
	ctx := kong.Parse(&c,
		kong.Name("errlens"),
		kong.Description("Normalize heterogeneous error-event documents, analyze error patterns, and forecast near-term error volumes"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	)

	globals := cli.NewGlobals(&c, cfg)
	defer globals.Logger.Sync() //nolint:errcheck // stderr sync failure is uninteresting

	if err := ctx.Run(globals); err != nil {
		fmt.Fprintf(os.Stderr, "errlens: %v\n", err)
		os.Exit(1)
	}
}

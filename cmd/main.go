package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/kpremium/cmd/collect"
	"github.com/sig-0/kpremium/cmd/env"
	"github.com/sig-0/kpremium/cmd/scrape"
	"github.com/sig-0/kpremium/cmd/serve"
	"github.com/sig-0/kpremium/cmd/sql"
)

func main() {
	// Load .env before parsing, so its entries reach the prefixed flags
	if err := env.LoadDotEnv(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
	}

	fs := flag.NewFlagSet("root", flag.ExitOnError)

	// Create the root command
	cmd := &ffcli.Command{
		ShortUsage: "<sub-command> [flags] [<arg>...]",
		LongHelp:   "Tracks the daily BTC Korea premium",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
	}

	// Add the subcommands
	cmd.Subcommands = []*ffcli.Command{
		collect.NewCollectCmd(),
		scrape.NewScrapeCmd(),
		serve.NewServeCmd(),
		sql.NewSQLCmd(),
	}

	if err := cmd.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}

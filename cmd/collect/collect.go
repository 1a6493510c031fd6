package collect

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/kpremium/cmd/env"
	"github.com/sig-0/kpremium/cmd/store"
	"github.com/sig-0/kpremium/ingest"
	"github.com/sig-0/kpremium/ingest/config"
)

// collectCfg wraps the collect configuration
type collectCfg struct {
	store store.Options

	configPath string
}

// NewCollectCmd creates the collect command
func NewCollectCmd() *ffcli.Command {
	cfg := &collectCfg{}

	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "collect",
		ShortUsage: "collect [flags]",
		LongHelp:   "Collects today's premiums once and upserts them into the dataset",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *collectCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the collection TOML configuration, if any",
	)

	store.RegisterFlags(fs, &c.store)
}

func (c *collectCfg) exec(ctx context.Context, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	if c.store.Path == "" {
		c.store.Path = cfg.DatasetPath
	}

	// Stdout carries the summary
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancelFn()

	s, closeFn, err := store.Open(runCtx, c.store)
	if err != nil {
		return err
	}
	defer closeFn()

	collector := ingest.NewCollector(
		s,
		cfg.RateProvider(),
		cfg.GlobalProviders(),
		cfg.VenueProviders(),
		append(cfg.CollectorOptions(), ingest.WithCollectorLogger(logger))...,
	)

	summary, err := collector.Collect(runCtx)
	if err != nil {
		return err
	}

	return PrintJSON(os.Stdout, summary.Entry)
}

// PrintJSON writes v as indented JSON, keeping non-ASCII text as is
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("unable to print result: %w", err)
	}

	return nil
}

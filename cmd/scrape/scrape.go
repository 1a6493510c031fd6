package scrape

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/kpremium/cmd/collect"
	"github.com/sig-0/kpremium/cmd/env"
	"github.com/sig-0/kpremium/ingest"
	"github.com/sig-0/kpremium/ingest/config"
	"github.com/sig-0/kpremium/provider/coinpan"
	"github.com/sig-0/kpremium/storage/file"
)

// scrapeCfg wraps the scrape configuration
type scrapeCfg struct {
	configPath string
	path       string

	browser bool
}

// NewScrapeCmd creates the scrape command
func NewScrapeCmd() *ffcli.Command {
	cfg := &scrapeCfg{}

	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "scrape",
		ShortUsage: "scrape [flags]",
		LongHelp:   "Scrapes today's premium table once and upserts it into the scrape dataset",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *scrapeCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the collection TOML configuration, if any",
	)

	fs.StringVar(
		&c.path,
		"path",
		"",
		"the scrape dataset path (overrides the configuration)",
	)

	fs.BoolVar(
		&c.browser,
		"browser",
		false,
		"render the page in headless Chrome instead of a plain HTTP request",
	)
}

func (c *scrapeCfg) exec(ctx context.Context, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	if c.path == "" {
		c.path = cfg.ScrapePath
	}

	// Stdout carries the scraped entry
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancelFn()

	opts := append(
		cfg.CollectorOptions(),
		ingest.WithCollectorLogger(logger),
		ingest.WithTimeout(coinpan.DefaultTimeout),
	)

	scraper := ingest.NewScrapeCollector(
		file.NewScrapeStorage(c.path),
		cfg.Scraper(c.browser),
		opts...,
	)

	entry, err := scraper.Collect(runCtx)
	if err != nil {
		return err
	}

	return collect.PrintJSON(os.Stdout, entry)
}

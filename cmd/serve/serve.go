package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/kpremium/cmd/env"
	"github.com/sig-0/kpremium/cmd/store"
	"github.com/sig-0/kpremium/ingest"
	ingestcfg "github.com/sig-0/kpremium/ingest/config"
	"github.com/sig-0/kpremium/server"
	"github.com/sig-0/kpremium/server/config"
	"github.com/sig-0/kpremium/storage"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config
	store  store.Options

	configPath        string
	collectConfigPath string
	schedule          string

	noCollect      bool
	collectOnStart bool
}

// NewServeCmd creates the serve command
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve [flags]",
		LongHelp:   "Serves the premium API, collecting the dataset on a daily schedule",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.StringVar(
		&c.collectConfigPath,
		"collect-config",
		"",
		"the path to the collection TOML configuration, if any",
	)

	fs.StringVar(
		&c.schedule,
		"schedule",
		"",
		"the cron expression of the daily collection (overrides the configuration)",
	)

	fs.BoolVar(
		&c.noCollect,
		"no-collect",
		false,
		"serve the dataset without scheduled collection",
	)

	fs.BoolVar(
		&c.collectOnStart,
		"collect-on-start",
		false,
		"run a collection immediately on start",
	)

	store.RegisterFlags(fs, &c.store)
}

// exec executes the serve command
func (c *serveCfg) exec(ctx context.Context, _ []string) error {
	// Read the server configuration, if any
	if c.configPath != "" {
		serverCfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read server config, %w", err)
		}

		c.config = serverCfg
	}

	collectCfg, err := ingestcfg.Load(c.collectConfigPath)
	if err != nil {
		return err
	}

	if c.schedule != "" {
		collectCfg.Schedule = c.schedule
	}

	if c.store.Path == "" {
		c.store.Path = collectCfg.DatasetPath
	}

	// Create a new logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	s, closeFn, err := store.Open(runCtx, c.store)
	if err != nil {
		return err
	}
	defer closeFn()

	// Create the server instance
	srv, err := server.New(
		s,
		server.WithLogger(logger),
		server.WithConfig(c.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	// Set up the ingestion service before anything starts serving
	var orchestrator *ingest.Orchestrator

	if !c.noCollect {
		orchestrator, err = newCollectOrchestrator(s, collectCfg, c.collectOnStart, logger)
		if err != nil {
			return err
		}
	}

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return srv.Serve(gCtx)
	})

	// Start the ingestion service
	if orchestrator != nil {
		group.Go(func() error {
			return orchestrator.Start(gCtx)
		})
	}

	return group.Wait()
}

// newCollectOrchestrator creates the scheduler with the collector registered on it
func newCollectOrchestrator(
	s storage.Storage,
	cfg *ingestcfg.Config,
	collectOnStart bool,
	logger *slog.Logger,
) (*ingest.Orchestrator, error) {
	schedule, err := ingest.ParseSchedule(cfg.Schedule)
	if err != nil {
		return nil, err
	}

	collector := ingest.NewCollector(
		s,
		cfg.RateProvider(),
		cfg.GlobalProviders(),
		cfg.VenueProviders(),
		append(cfg.CollectorOptions(), ingest.WithCollectorLogger(logger))...,
	)

	orchestrator := newOrchestrator(cfg, collectOnStart, logger)

	if err = orchestrator.Register(collector, schedule); err != nil {
		return nil, fmt.Errorf("unable to register collector: %w", err)
	}

	return orchestrator, nil
}

// newOrchestrator creates the scheduler, evaluating schedules in the dataset's zone
func newOrchestrator(
	cfg *ingestcfg.Config,
	collectOnStart bool,
	logger *slog.Logger,
) *ingest.Orchestrator {
	zone := time.FixedZone(
		fmt.Sprintf("UTC%+d", cfg.UTCOffsetHours),
		int(cfg.UTCOffset()/time.Second),
	)

	opts := []ingest.Option{
		ingest.WithLogger(logger),
		ingest.WithLocation(zone),
		ingest.WithQueryInterval(time.Second * 10),
	}

	if collectOnStart {
		opts = append(opts, ingest.WithRunOnRegister())
	}

	return ingest.New(opts...)
}

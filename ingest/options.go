package ingest

import (
	"io"
	"log/slog"
	"time"

	"github.com/sig-0/kpremium/storage/types"
)

type Option func(o *Orchestrator)

// WithLogger specifies the logger for the orchestrator
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithQueryInterval specifies how often the orchestrator checks for due jobs.
// Defaults to 1s
func WithQueryInterval(q time.Duration) Option {
	return func(o *Orchestrator) {
		o.queryInterval = q
	}
}

// WithLocation specifies the time zone job schedules are evaluated in.
// Defaults to the fixed KST zone
func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) {
		o.location = loc
	}
}

// WithRunOnRegister makes registered jobs due immediately,
// instead of at their first schedule slot
func WithRunOnRegister() Option {
	return func(o *Orchestrator) {
		o.runOnRegister = true
	}
}

// collectorConfig is the run configuration shared by the collectors
type collectorConfig struct {
	logger      *slog.Logger
	now         func() time.Time
	offset      time.Duration
	timeout     time.Duration
	concurrency int
}

func defaultCollectorConfig() collectorConfig {
	return collectorConfig{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		offset:      types.KSTOffset,
		timeout:     20 * time.Second,
		concurrency: 1,
	}
}

type CollectorOption func(c *collectorConfig)

// WithCollectorLogger specifies the logger for the collector
func WithCollectorLogger(l *slog.Logger) CollectorOption {
	return func(c *collectorConfig) {
		c.logger = l
	}
}

// WithClock overrides the clock the dataset date is derived from
func WithClock(now func() time.Time) CollectorOption {
	return func(c *collectorConfig) {
		c.now = now
	}
}

// WithUTCOffset specifies the fixed offset of the dataset's civil date.
// Defaults to +9h (KST)
func WithUTCOffset(offset time.Duration) CollectorOption {
	return func(c *collectorConfig) {
		c.offset = offset
	}
}

// WithTimeout specifies the per-call upstream timeout.
// Defaults to 20s, a non-positive value disables it
func WithTimeout(timeout time.Duration) CollectorOption {
	return func(c *collectorConfig) {
		c.timeout = timeout
	}
}

// WithConcurrency specifies how many venues are collected in parallel.
// Defaults to 1 (sequential)
func WithConcurrency(n int) CollectorOption {
	return func(c *collectorConfig) {
		c.concurrency = n
	}
}

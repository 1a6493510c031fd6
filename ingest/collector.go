package ingest

import (
	"context"
	"fmt"

	"github.com/rs/xid"

	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/types"
)

// Summary is the outcome of a single collection run
type Summary struct {
	Entry           *types.DailyEntry
	Failed          []types.Venue // venues with no premium this run
	RunID           xid.ID
	AllVenuesFailed bool
}

// Collector runs the daily premium collection:
// FX rate, global price, venue premiums, upsert
type Collector struct {
	storage storage.Storage
	rate    RateProvider

	globals []PriceProvider
	venues  []VenueProvider

	collectorConfig
}

// NewCollector creates a new Collector instance.
// The provider order and venue set are fixed at construction
func NewCollector(
	storage storage.Storage,
	rate RateProvider,
	globals []PriceProvider,
	venues []VenueProvider,
	opts ...CollectorOption,
) *Collector {
	c := &Collector{
		storage:         storage,
		rate:            rate,
		globals:         append([]PriceProvider(nil), globals...),
		venues:          append([]VenueProvider(nil), venues...),
		collectorConfig: defaultCollectorConfig(),
	}

	for _, opt := range opts {
		opt(&c.collectorConfig)
	}

	return c
}

// Name returns the job name of the collector
func (c *Collector) Name() string {
	return "premium-collect"
}

// Run collects once, discarding the summary
func (c *Collector) Run(ctx context.Context) error {
	_, err := c.Collect(ctx)

	return err
}

// Collect executes a single collection run and upserts the day's entry.
// FX, global resolution and storage failures abort the run without writing
func (c *Collector) Collect(ctx context.Context) (*Summary, error) {
	var (
		runID  = xid.New()
		logger = c.logger.With("run", runID.String())
		date   = types.DateKey(c.now(), c.offset)
	)

	logger.Info("starting collection", "date", date)

	rate, err := c.fetchRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch USD/KRW rate from %s: %w", c.rate.Name(), err)
	}

	global, err := ResolveGlobal(ctx, logger, c.timeout, c.globals)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve global BTC price: %w", err)
	}

	globalKRW := global.USDPrice * rate

	logger.Info(
		"resolved reference prices",
		"usdkrw", rate,
		"global_source", global.Source,
		"global_btc_usd", global.USDPrice,
		"global_btc_krw", globalKRW,
	)

	var (
		results = collectPremiums(ctx, logger, c.venues, globalKRW, c.concurrency, c.timeout)
		summary = &Summary{
			RunID: runID,
			Entry: &types.DailyEntry{
				Date:     date,
				Premiums: make(map[types.Venue]*types.PremiumRecord, len(results)),
				Meta: &types.Meta{
					USDKRW:       rate,
					GlobalBTCUSD: global.USDPrice,
					GlobalBTCKRW: globalKRW,
					GlobalSource: global.Source.String(),
				},
			},
		}
	)

	for _, res := range results {
		summary.Entry.Premiums[res.venue] = res.record

		if res.record == nil {
			summary.Failed = append(summary.Failed, res.venue)
		}
	}

	if len(results) > 0 && len(summary.Failed) == len(results) {
		summary.AllVenuesFailed = true

		logger.Error(
			"all venues failed, upstream may be blocking requests",
			"date", date,
		)
	}

	if err = c.storage.Upsert(ctx, summary.Entry); err != nil {
		return nil, fmt.Errorf("unable to save daily entry: %w", err)
	}

	logger.Info(
		"saved daily entry",
		"date", date,
		"venues", len(results),
		"failed", len(summary.Failed),
	)

	return summary, nil
}

func (c *Collector) fetchRate(ctx context.Context) (float64, error) {
	if c.timeout > 0 {
		var cancelFn context.CancelFunc

		ctx, cancelFn = context.WithTimeout(ctx, c.timeout)
		defer cancelFn()
	}

	rate, err := c.rate.FetchRate(ctx)
	if err != nil {
		return 0, err
	}

	if rate <= 0 {
		return 0, fmt.Errorf("non-positive rate %v", rate)
	}

	return rate, nil
}

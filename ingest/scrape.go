package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/types"
)

var errNoPremiums = errors.New("no premiums extracted")

// ScrapeCollector upserts the scraped per-venue KRW premiums of the day
type ScrapeCollector struct {
	storage storage.ScrapeStorage
	scraper PremiumScraper

	collectorConfig
}

// NewScrapeCollector creates a new ScrapeCollector instance
func NewScrapeCollector(
	storage storage.ScrapeStorage,
	scraper PremiumScraper,
	opts ...CollectorOption,
) *ScrapeCollector {
	s := &ScrapeCollector{
		storage:         storage,
		scraper:         scraper,
		collectorConfig: defaultCollectorConfig(),
	}

	for _, opt := range opts {
		opt(&s.collectorConfig)
	}

	return s
}

// Name returns the job name of the scrape collector
func (s *ScrapeCollector) Name() string {
	return "premium-scrape"
}

// Run scrapes once, discarding the entry
func (s *ScrapeCollector) Run(ctx context.Context) error {
	_, err := s.Collect(ctx)

	return err
}

// Collect scrapes the premium table and upserts the day's entry
func (s *ScrapeCollector) Collect(ctx context.Context) (*types.ScrapedEntry, error) {
	date := types.DateKey(s.now(), s.offset)

	if s.timeout > 0 {
		var cancelFn context.CancelFunc

		ctx, cancelFn = context.WithTimeout(ctx, s.timeout)
		defer cancelFn()
	}

	premiums, err := s.scraper.FetchPremiums(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to scrape premiums from %s: %w", s.scraper.Name(), err)
	}

	if len(premiums) == 0 {
		return nil, errNoPremiums
	}

	entry := &types.ScrapedEntry{
		Date:     date,
		Premiums: premiums,
	}

	if err = s.storage.UpsertScraped(ctx, entry); err != nil {
		return nil, fmt.Errorf("unable to save scraped entry: %w", err)
	}

	s.logger.Info(
		"saved scraped entry",
		"date", date,
		"source", s.scraper.Name(),
		"venues", len(premiums),
	)

	return entry, nil
}

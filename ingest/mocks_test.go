package ingest

import (
	"context"
	"time"

	"github.com/sig-0/kpremium/storage/types"
)

type (
	nameDelegate     func() string
	fetchDelegate    func(context.Context) (float64, error)
	premiumsDelegate func(context.Context) (map[types.Venue]*int64, error)
	runDelegate      func(context.Context) error
)

type mockRateProvider struct {
	fetchFn fetchDelegate
}

func (m *mockRateProvider) Name() string {
	return "mock-rate"
}

func (m *mockRateProvider) FetchRate(ctx context.Context) (float64, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}

	return 0, nil
}

type mockPriceProvider struct {
	fetchFn fetchDelegate
	source  types.Source
}

func (m *mockPriceProvider) Source() types.Source {
	return m.source
}

func (m *mockPriceProvider) FetchPrice(ctx context.Context) (float64, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}

	return 0, nil
}

type mockVenueProvider struct {
	fetchFn fetchDelegate
	venue   types.Venue
}

func (m *mockVenueProvider) Venue() types.Venue {
	return m.venue
}

func (m *mockVenueProvider) FetchPrice(ctx context.Context) (float64, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}

	return 0, nil
}

type mockScraper struct {
	fetchFn premiumsDelegate
}

func (m *mockScraper) Name() string {
	return "mock-scraper"
}

func (m *mockScraper) FetchPremiums(ctx context.Context) (map[types.Venue]*int64, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}

	return nil, nil
}

type mockJob struct {
	nameFn nameDelegate
	runFn  runDelegate
}

func (m *mockJob) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return ""
}

func (m *mockJob) Run(ctx context.Context) error {
	if m.runFn != nil {
		return m.runFn(ctx)
	}

	return nil
}

// everySchedule fires at a fixed interval, below cron's one second resolution
type everySchedule time.Duration

func (s everySchedule) Next(t time.Time) time.Time {
	return t.Add(time.Duration(s))
}

// fixedPrice returns a fetch delegate yielding the given price
func fixedPrice(price float64) fetchDelegate {
	return func(context.Context) (float64, error) {
		return price, nil
	}
}

// failing returns a fetch delegate yielding the given error
func failing(err error) fetchDelegate {
	return func(context.Context) (float64, error) {
		return 0, err
	}
}

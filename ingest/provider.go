package ingest

import (
	"context"

	"github.com/sig-0/kpremium/storage/types"
)

// RateProvider is the USD/KRW reference rate source
type RateProvider interface {
	// Name returns the human-readable name of the provider
	Name() string

	// FetchRate fetches the current USD/KRW rate
	FetchRate(context.Context) (float64, error)
}

// PriceProvider is a global BTC/USD price source
type PriceProvider interface {
	// Source returns the provider tag recorded in the dataset
	Source() types.Source

	// FetchPrice fetches the current BTC/USD price
	FetchPrice(context.Context) (float64, error)
}

// VenueProvider is a domestic BTC/KRW price source
type VenueProvider interface {
	// Venue returns the venue the provider collects
	Venue() types.Venue

	// FetchPrice fetches the venue's last BTC/KRW price
	FetchPrice(context.Context) (float64, error)
}

// PremiumScraper is a source of already computed per-venue KRW premiums
type PremiumScraper interface {
	// Name returns the human-readable name of the scraper
	Name() string

	// FetchPremiums fetches the KRW premium of every listed venue.
	// A nil amount means the venue had no value
	FetchPremiums(context.Context) (map[types.Venue]*int64, error)
}

// Job is a single unit of scheduled work
type Job interface {
	// Name returns the human-readable name of the job
	Name() string

	// Run executes the job once
	Run(context.Context) error
}

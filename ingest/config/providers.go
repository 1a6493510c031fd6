package config

import (
	"github.com/sig-0/kpremium/ingest"
	"github.com/sig-0/kpremium/provider/coinpan"
	"github.com/sig-0/kpremium/provider/domestic"
	"github.com/sig-0/kpremium/provider/fx"
	"github.com/sig-0/kpremium/provider/global"
	"github.com/sig-0/kpremium/storage/types"
)

// RateProvider returns the configured USD/KRW rate provider
func (c *Config) RateProvider() ingest.RateProvider {
	return fx.NewExchangeRateProvider(c.Endpoints.FX, c.Timeout())
}

// GlobalProviders returns the configured global providers, in fallback order
func (c *Config) GlobalProviders() []ingest.PriceProvider {
	providers := make([]ingest.PriceProvider, 0, len(c.Providers))

	for _, name := range c.Providers {
		switch types.Source(name) {
		case types.SourceCoinbase:
			providers = append(providers, global.NewCoinbaseProvider(c.Endpoints.Coinbase, c.Timeout()))
		case types.SourceKraken:
			providers = append(providers, global.NewKrakenProvider(c.Endpoints.Kraken, c.Timeout()))
		case types.SourceCoinGecko:
			providers = append(providers, global.NewCoinGeckoProvider(c.Endpoints.CoinGecko, c.Timeout()))
		}
	}

	return providers
}

// VenueProviders returns the configured domestic venues, in collection order
func (c *Config) VenueProviders() []ingest.VenueProvider {
	venues := make([]ingest.VenueProvider, 0, len(c.Venues))

	for _, name := range c.Venues {
		switch types.Venue(name) {
		case types.VenueUpbit:
			venues = append(venues, domestic.NewUpbit(c.Endpoints.Upbit, c.Timeout()))
		case types.VenueBithumb:
			venues = append(venues, domestic.NewBithumb(c.Endpoints.Bithumb, c.Timeout()))
		case types.VenueCoinone:
			venues = append(venues, domestic.NewCoinone(c.Endpoints.Coinone, c.Timeout()))
		case types.VenueKorbit:
			venues = append(venues, domestic.NewKorbit(c.Endpoints.Korbit, c.Timeout()))
		}
	}

	return venues
}

// Scraper returns the premium table scraper, optionally rendering in a browser
func (c *Config) Scraper(browser bool) ingest.PremiumScraper {
	if browser {
		return coinpan.NewBrowserScraper(c.Endpoints.Coinpan, coinpan.DefaultTimeout)
	}

	return coinpan.NewScraper(c.Endpoints.Coinpan, coinpan.DefaultTimeout)
}

// CollectorOptions returns the collector options derived from the configuration
func (c *Config) CollectorOptions() []ingest.CollectorOption {
	return []ingest.CollectorOption{
		ingest.WithUTCOffset(c.UTCOffset()),
		ingest.WithTimeout(c.Timeout()),
		ingest.WithConcurrency(c.Concurrency),
	}
}

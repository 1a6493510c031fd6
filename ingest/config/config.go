package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/robfig/cron"

	"github.com/sig-0/kpremium/provider/coinpan"
	"github.com/sig-0/kpremium/provider/domestic"
	"github.com/sig-0/kpremium/provider/fx"
	"github.com/sig-0/kpremium/provider/global"
	"github.com/sig-0/kpremium/storage/types"
)

const (
	DefaultDatasetPath = "data/btc_premium.json"
	DefaultScrapePath  = "data/korea_premium.json"
	DefaultSchedule    = "10 0 * * *"

	DefaultUTCOffsetHours = 9
	DefaultTimeoutSeconds = 20
	DefaultConcurrency    = 1
)

var (
	ErrInvalidUTCOffset   = errors.New("invalid UTC offset")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidConcurrency = errors.New("invalid concurrency")
	ErrInvalidSchedule    = errors.New("invalid schedule")
	ErrNoProviders        = errors.New("no global providers configured")
	ErrUnknownProvider    = errors.New("unknown global provider")
	ErrDuplicateProvider  = errors.New("duplicate global provider")
	ErrUnknownVenue       = errors.New("unknown venue")
	ErrDuplicateVenue     = errors.New("duplicate venue")
	ErrInvalidEndpoint    = errors.New("invalid endpoint")
)

// Endpoints are the upstream URLs, overridable for testing or mirrors
type Endpoints struct {
	FX        string `toml:"fx"`
	Coinbase  string `toml:"coinbase"`
	Kraken    string `toml:"kraken"`
	CoinGecko string `toml:"coingecko"`
	Upbit     string `toml:"upbit"`
	Bithumb   string `toml:"bithumb"`
	Coinone   string `toml:"coinone"`
	Korbit    string `toml:"korbit"`
	Coinpan   string `toml:"coinpan"`
}

// Config defines the collection run configuration
type Config struct {
	// Upstream URLs
	Endpoints *Endpoints `toml:"endpoints"`

	// Path of the JSON dataset
	DatasetPath string `toml:"dataset_path"`

	// Path of the scraped premium dataset
	ScrapePath string `toml:"scrape_path"`

	// Cron expression of the scheduled collection (serve only)
	Schedule string `toml:"schedule"`

	// Global providers, in fallback order
	Providers []string `toml:"providers"`

	// Domestic venues, in collection order
	Venues []string `toml:"venues"`

	// Offset of the dataset's civil date, in hours
	UTCOffsetHours int `toml:"utc_offset_hours"`

	// Per-call upstream timeout, in seconds
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Number of venues collected in parallel
	Concurrency int `toml:"concurrency"`
}

// DefaultEndpoints returns the public upstream URLs
func DefaultEndpoints() *Endpoints {
	return &Endpoints{
		FX:        fx.DefaultURL,
		Coinbase:  global.CoinbaseURL,
		Kraken:    global.KrakenURL,
		CoinGecko: global.CoinGeckoURL,
		Upbit:     domestic.UpbitURL,
		Bithumb:   domestic.BithumbURL,
		Coinone:   domestic.CoinoneURL,
		Korbit:    domestic.KorbitURL,
		Coinpan:   coinpan.DefaultURL,
	}
}

// DefaultConfig returns the default collection configuration
func DefaultConfig() *Config {
	return &Config{
		Endpoints:   DefaultEndpoints(),
		DatasetPath: DefaultDatasetPath,
		ScrapePath:  DefaultScrapePath,
		Schedule:    DefaultSchedule,
		Providers: []string{
			types.SourceCoinbase.String(),
			types.SourceKraken.String(),
			types.SourceCoinGecko.String(),
		},
		Venues: []string{
			types.VenueUpbit.String(),
			types.VenueBithumb.String(),
			types.VenueCoinone.String(),
			types.VenueKorbit.String(),
		},
		UTCOffsetHours: DefaultUTCOffsetHours,
		TimeoutSeconds: DefaultTimeoutSeconds,
		Concurrency:    DefaultConcurrency,
	}
}

// UTCOffset returns the civil date offset as a duration
func (c *Config) UTCOffset() time.Duration {
	return time.Duration(c.UTCOffsetHours) * time.Hour
}

// Timeout returns the per-call upstream timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ValidateConfig validates the collection configuration
func ValidateConfig(config *Config) error {
	if config.UTCOffsetHours < -12 || config.UTCOffsetHours > 14 {
		return ErrInvalidUTCOffset
	}

	if config.TimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}

	if config.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	if _, err := cron.ParseStandard(config.Schedule); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	if len(config.Providers) == 0 {
		return ErrNoProviders
	}

	if err := validateNames(
		config.Providers,
		knownProviders,
		ErrUnknownProvider,
		ErrDuplicateProvider,
	); err != nil {
		return err
	}

	if err := validateNames(
		config.Venues,
		knownVenues,
		ErrUnknownVenue,
		ErrDuplicateVenue,
	); err != nil {
		return err
	}

	if config.Endpoints == nil {
		return fmt.Errorf("%w: missing endpoints", ErrInvalidEndpoint)
	}

	return nil
}

var (
	knownProviders = map[string]struct{}{
		types.SourceCoinbase.String():  {},
		types.SourceKraken.String():    {},
		types.SourceCoinGecko.String(): {},
	}

	knownVenues = map[string]struct{}{
		types.VenueUpbit.String():   {},
		types.VenueBithumb.String(): {},
		types.VenueCoinone.String(): {},
		types.VenueKorbit.String():  {},
	}
)

func validateNames(names []string, known map[string]struct{}, errUnknown, errDuplicate error) error {
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("%w: %q", errUnknown, name)
		}

		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q", errDuplicate, name)
		}

		seen[name] = struct{}{}
	}

	return nil
}

// Read reads the configuration from the given path.
// Fields absent from the file keep their default values
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it into a tree, so present keys can be told apart from absent ones
	tree, err := toml.LoadBytes(content)
	if err != nil {
		return nil, err
	}

	var cfg Config

	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return withDefaults(tree, &cfg), nil
}

// withDefaults fills every key absent from the tree with its default value
func withDefaults(tree *toml.Tree, cfg *Config) *Config {
	def := DefaultConfig()

	if !tree.Has("dataset_path") {
		cfg.DatasetPath = def.DatasetPath
	}

	if !tree.Has("scrape_path") {
		cfg.ScrapePath = def.ScrapePath
	}

	if !tree.Has("schedule") {
		cfg.Schedule = def.Schedule
	}

	if !tree.Has("providers") {
		cfg.Providers = def.Providers
	}

	if !tree.Has("venues") {
		cfg.Venues = def.Venues
	}

	if !tree.Has("utc_offset_hours") {
		cfg.UTCOffsetHours = def.UTCOffsetHours
	}

	if !tree.Has("timeout_seconds") {
		cfg.TimeoutSeconds = def.TimeoutSeconds
	}

	if !tree.Has("concurrency") {
		cfg.Concurrency = def.Concurrency
	}

	if cfg.Endpoints == nil {
		cfg.Endpoints = def.Endpoints
	}

	endpoints := []struct {
		value *string
		def   string
	}{
		{&cfg.Endpoints.FX, def.Endpoints.FX},
		{&cfg.Endpoints.Coinbase, def.Endpoints.Coinbase},
		{&cfg.Endpoints.Kraken, def.Endpoints.Kraken},
		{&cfg.Endpoints.CoinGecko, def.Endpoints.CoinGecko},
		{&cfg.Endpoints.Upbit, def.Endpoints.Upbit},
		{&cfg.Endpoints.Bithumb, def.Endpoints.Bithumb},
		{&cfg.Endpoints.Coinone, def.Endpoints.Coinone},
		{&cfg.Endpoints.Korbit, def.Endpoints.Korbit},
		{&cfg.Endpoints.Coinpan, def.Endpoints.Coinpan},
	}

	for _, e := range endpoints {
		if *e.value == "" {
			*e.value = e.def
		}
	}

	return cfg
}

// Load reads the configuration at path (the default when path is empty)
// and validates it
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		read, err := Read(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read collection config, %w", err)
		}

		cfg = read
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid collection config, %w", err)
	}

	return cfg, nil
}

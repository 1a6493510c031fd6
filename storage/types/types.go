package types

import (
	"time"
)

// DateFormat is the layout of the dataset's primary key
const DateFormat = "2006-01-02"

// KSTOffset is the default fixed offset used to derive the civil date
const KSTOffset = 9 * time.Hour

// Venue is a domestic exchange acting as a KRW price source
type Venue string

const (
	VenueUpbit   Venue = "upbit"
	VenueBithumb Venue = "bithumb"
	VenueCoinone Venue = "coinone"
	VenueKorbit  Venue = "korbit"
)

func (v Venue) String() string {
	return string(v)
}

// Source is the tag of a global USD price provider
type Source string

const (
	SourceCoinbase  Source = "coinbase"
	SourceKraken    Source = "kraken"
	SourceCoinGecko Source = "coingecko"
)

func (s Source) String() string {
	return string(s)
}

// GlobalReference is the resolved global BTC/USD price and its provenance
type GlobalReference struct {
	Source   Source  `json:"source"`
	USDPrice float64 `json:"usd_price"`
}

// PremiumRecord is the premium of a single venue over the global price
type PremiumRecord struct {
	KRW int64   `json:"krw"`
	Pct float64 `json:"pct"`
}

// Meta holds the reference values a day's premiums were computed against
type Meta struct {
	GlobalSource string  `json:"global_source"`
	USDKRW       float64 `json:"usdkrw"`
	GlobalBTCUSD float64 `json:"global_btc_usd"`
	GlobalBTCKRW float64 `json:"global_btc_krw"`
}

// DailyEntry is a single dataset row, unique by date.
// A nil premium means the venue could not be collected that day
type DailyEntry struct {
	Premiums map[Venue]*PremiumRecord `json:"premiums"`
	Meta     *Meta                    `json:"meta,omitempty"`
	Date     string                   `json:"date"`
}

// Key returns the date the entry is unique by
func (e *DailyEntry) Key() string {
	return e.Date
}

// ScrapedEntry is a row of the scraped premium dataset.
// Premiums are bare KRW amounts, nil when the venue showed no value
type ScrapedEntry struct {
	Premiums map[Venue]*int64 `json:"premiums"`
	Date     string           `json:"date"`
}

// Key returns the date the entry is unique by
func (e *ScrapedEntry) Key() string {
	return e.Date
}

// DateKey returns the civil date of t under a fixed UTC offset
func DateKey(t time.Time, offset time.Duration) string {
	zone := time.FixedZone("", int(offset/time.Second))

	return t.In(zone).Format(DateFormat)
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date
func ValidDate(s string) bool {
	_, err := time.Parse(DateFormat, s)

	return err == nil
}

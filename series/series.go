// Package series derives chart series and summary statistics from the dataset
package series

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/types"
)

// Field selects the premium value a series is built from
type Field string

const (
	FieldKRW Field = "krw"
	FieldPct Field = "pct"
)

var (
	ErrInvalidField = errors.New("invalid series field")
	ErrInvalidRange = errors.New("invalid range")
)

// ParseField parses a field name, defaulting to krw when empty
func ParseField(s string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(s))) {
	case "", FieldKRW:
		return FieldKRW, nil
	case FieldPct:
		return FieldPct, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
	}
}

// ParseRange parses a day range. "all" or an empty value is 0 (everything)
func ParseRange(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return 0, nil
	}

	days, err := strconv.Atoi(s)
	if err != nil || days < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}

	return days, nil
}

// Point is a single dated series value
type Point struct {
	Date  string  `json:"date"`
	Time  int64   `json:"time"` // unix seconds of the UTC day start
	Value float64 `json:"value"`
}

// Venues returns the sorted union of venue names
func Venues(entries []*types.DailyEntry) []types.Venue {
	return storage.Venues(entries)
}

// SliceByRange returns the last days entries, or all of them when days is 0
func SliceByRange(entries []*types.DailyEntry, days int) []*types.DailyEntry {
	if days <= 0 || days >= len(entries) {
		return entries
	}

	return entries[len(entries)-days:]
}

// Points builds the venue's series, skipping days without a value
func Points(entries []*types.DailyEntry, venue types.Venue, field Field) []Point {
	points := make([]Point, 0, len(entries))

	for _, e := range entries {
		record := e.Premiums[venue]
		if record == nil {
			continue // gap
		}

		day, err := time.Parse(types.DateFormat, e.Date)
		if err != nil {
			continue
		}

		points = append(points, Point{
			Date:  e.Date,
			Time:  day.Unix(),
			Value: value(record, field),
		})
	}

	return points
}

// MovingAverage computes the trailing mean over the last window points
func MovingAverage(points []Point, window int) []Point {
	if window <= 0 {
		return []Point{}
	}

	out := make([]Point, 0, len(points))

	var sum float64

	for i, p := range points {
		sum += p.Value

		if i >= window {
			sum -= points[i-window].Value
		}

		count := min(i+1, window)

		out = append(out, Point{
			Date:  p.Date,
			Time:  p.Time,
			Value: sum / float64(count),
		})
	}

	return out
}

// Stats summarizes a venue's series. Fields are nil when undefined
type Stats struct {
	Latest     *float64 `json:"latest"`
	Prev       *float64 `json:"prev"`
	Change     *float64 `json:"chg"`
	Mean       *float64 `json:"avg"`
	Min        *float64 `json:"min"`
	Max        *float64 `json:"max"`
	LatestDate string   `json:"latest_date,omitempty"`
}

// BuildStats computes the summary statistics of the venue's series
func BuildStats(entries []*types.DailyEntry, venue types.Venue, field Field) *Stats {
	var (
		stats  = &Stats{}
		points = Points(entries, venue, field)
	)

	if len(points) == 0 {
		return stats
	}

	latest := points[len(points)-1]

	stats.Latest = ptr(latest.Value)
	stats.LatestDate = latest.Date

	if len(points) > 1 {
		prev := points[len(points)-2].Value

		stats.Prev = ptr(prev)
		stats.Change = ptr(latest.Value - prev)
	}

	var (
		sum    float64
		lo, hi = points[0].Value, points[0].Value
	)

	for _, p := range points {
		sum += p.Value

		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}

	stats.Mean = ptr(sum / float64(len(points)))
	stats.Min = ptr(lo)
	stats.Max = ptr(hi)

	return stats
}

func value(record *types.PremiumRecord, field Field) float64 {
	if field == FieldPct {
		return record.Pct
	}

	return float64(record.KRW)
}

func ptr(v float64) *float64 {
	return &v
}

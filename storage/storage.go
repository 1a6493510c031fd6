package storage

import (
	"context"
	"errors"
	"sort"

	"github.com/sig-0/kpremium/storage/types"
)

var (
	// ErrCorruptDataset is returned when persisted data cannot be parsed
	ErrCorruptDataset = errors.New("corrupt dataset")

	// ErrInvalidEntry is returned when an entry is nil or has a malformed date
	ErrInvalidEntry = errors.New("invalid entry")
)

// Storage is an abstraction over the daily premium dataset
type Storage interface {
	// Load fetches the full dataset, sorted ascending by date
	Load(context.Context) ([]*types.DailyEntry, error)

	// Upsert saves the given entry, replacing any entry with the same date
	Upsert(context.Context, *types.DailyEntry) error

	// EntryByDate fetches the entry for the given date, if any
	EntryByDate(context.Context, string) (*types.DailyEntry, error)

	// ListVenues lists all venues present in the dataset
	ListVenues(context.Context) ([]types.Venue, error)
}

// ScrapeStorage is an abstraction over the scraped premium dataset
type ScrapeStorage interface {
	// LoadScraped fetches the full scraped dataset, sorted ascending by date
	LoadScraped(context.Context) ([]*types.ScrapedEntry, error)

	// UpsertScraped saves the given entry, replacing any entry with the same date
	UpsertScraped(context.Context, *types.ScrapedEntry) error
}

// Dated is a dataset row keyed by its YYYY-MM-DD date
type Dated interface {
	comparable

	Key() string
}

// Merge returns a new dataset with entry upserted by date.
// Any existing entry for the same date is dropped, entry is appended,
// and the result is sorted ascending by date. The input is not modified
func Merge[E Dated](entries []E, entry E) []E {
	var zero E

	out := make([]E, 0, len(entries)+1)

	for _, e := range entries {
		if e == zero || e.Key() == entry.Key() {
			continue
		}

		out = append(out, e)
	}

	out = append(out, entry)
	Sort(out)

	return out
}

// Sort orders the entries ascending by date.
// The fixed YYYY-MM-DD layout makes lexicographic order chronological
func Sort[E Dated](entries []E) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Key() < entries[j].Key()
	})
}

// Validate checks that the entry can be stored
func Validate[E Dated](entry E) error {
	var zero E

	if entry == zero || !types.ValidDate(entry.Key()) {
		return ErrInvalidEntry
	}

	return nil
}

// Venues returns the sorted union of venues across the entries
func Venues(entries []*types.DailyEntry) []types.Venue {
	seen := make(map[types.Venue]struct{})

	for _, e := range entries {
		for v := range e.Premiums {
			seen[v] = struct{}{}
		}
	}

	out := make([]types.Venue, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})

	return out
}

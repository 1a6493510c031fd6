package memory

import (
	"context"
	"sync"

	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/types"
)

// Storage keeps the dataset keyed by date; the sorted sequence is
// derived on every read
type Storage struct {
	data map[string]*types.DailyEntry

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make(map[string]*types.DailyEntry),
	}
}

func (s *Storage) Load(_ context.Context) ([]*types.DailyEntry, error) {
	s.mu.RLock()

	out := make([]*types.DailyEntry, 0, len(s.data))
	for _, e := range s.data {
		out = append(out, e)
	}

	s.mu.RUnlock()

	storage.Sort(out)

	return out, nil
}

func (s *Storage) Upsert(_ context.Context, entry *types.DailyEntry) error {
	if err := storage.Validate(entry); err != nil {
		return err
	}

	s.mu.Lock()
	s.data[entry.Date] = entry // date is unique
	s.mu.Unlock()

	return nil
}

func (s *Storage) EntryByDate(_ context.Context, date string) (*types.DailyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data[date], nil
}

func (s *Storage) ListVenues(ctx context.Context) ([]types.Venue, error) {
	entries, _ := s.Load(ctx) //nolint:errcheck // never fails

	return storage.Venues(entries), nil
}

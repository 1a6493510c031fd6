package file

import (
	"context"
	"sync"

	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/types"
)

// DefaultPath is the default location of the premium dataset
const DefaultPath = "data/btc_premium.json"

// Storage keeps the full dataset as a single pretty-printed JSON array.
// Every write rewrites the whole file
type Storage struct {
	path string

	mu sync.Mutex
}

func NewStorage(path string) *Storage {
	return &Storage{
		path: path,
	}
}

// Path returns the dataset location
func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) Load(_ context.Context) ([]*types.DailyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *Storage) Upsert(_ context.Context, entry *types.DailyEntry) error {
	if err := storage.Validate(entry); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	return s.save(storage.Merge(entries, entry))
}

func (s *Storage) EntryByDate(_ context.Context, date string) (*types.DailyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.Date == date {
			return e, nil
		}
	}

	return nil, nil //nolint:nilnil // valid case
}

func (s *Storage) ListVenues(_ context.Context) ([]types.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	return storage.Venues(entries), nil
}

func (s *Storage) load() ([]*types.DailyEntry, error) {
	return readDataset[*types.DailyEntry](s.path)
}

func (s *Storage) save(entries []*types.DailyEntry) error {
	return writeDataset(s.path, entries)
}

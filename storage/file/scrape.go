package file

import (
	"context"
	"sync"

	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/types"
)

// ScrapeStorage keeps the scraped premium dataset as a JSON array of
// {date, premiums} rows, premiums being bare KRW amounts or null
type ScrapeStorage struct {
	path string

	mu sync.Mutex
}

func NewScrapeStorage(path string) *ScrapeStorage {
	return &ScrapeStorage{
		path: path,
	}
}

func (s *ScrapeStorage) LoadScraped(_ context.Context) ([]*types.ScrapedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return readDataset[*types.ScrapedEntry](s.path)
}

func (s *ScrapeStorage) UpsertScraped(_ context.Context, entry *types.ScrapedEntry) error {
	if err := storage.Validate(entry); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := readDataset[*types.ScrapedEntry](s.path)
	if err != nil {
		return err
	}

	return writeDataset(s.path, storage.Merge(entries, entry))
}

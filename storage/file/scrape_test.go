package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/types"
)

func krw(v int64) *int64 {
	return &v
}

// scrapedDataset is a dataset as written by the dashboard's scraper
const scrapedDataset = `[
  {"date": "2024-06-02", "premiums": {"업비트": -300000, "코인원": null}},
  {"date": "2024-06-01", "premiums": {"업비트": 587305, "빗썸": null}}
]`

func TestScrapeStorage_LoadScraped(t *testing.T) {
	t.Parallel()

	t.Run("existing bare amount dataset", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "korea_premium.json")
		require.NoError(t, os.WriteFile(path, []byte(scrapedDataset), 0o600))

		entries, err := NewScrapeStorage(path).LoadScraped(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, "2024-06-01", entries[0].Date)
		assert.Equal(t, krw(587_305), entries[0].Premiums["업비트"])
		assert.Nil(t, entries[0].Premiums["빗썸"])
		assert.Contains(t, entries[0].Premiums, types.Venue("빗썸"))

		assert.Equal(t, krw(-300_000), entries[1].Premiums["업비트"])
	})

	t.Run("missing file is empty", func(t *testing.T) {
		t.Parallel()

		entries, err := NewScrapeStorage(filepath.Join(t.TempDir(), "none.json")).
			LoadScraped(context.Background())
		require.NoError(t, err)

		assert.Empty(t, entries)
	})

	t.Run("record shaped premiums are corrupt", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "korea_premium.json")
		require.NoError(t, os.WriteFile(
			path,
			[]byte(`[{"date":"2024-06-01","premiums":{"업비트":{"krw":1,"pct":0.1}}}]`),
			0o600,
		))

		_, err := NewScrapeStorage(path).LoadScraped(context.Background())

		assert.ErrorIs(t, err, storage.ErrCorruptDataset)
	})
}

func TestScrapeStorage_UpsertScraped(t *testing.T) {
	t.Parallel()

	t.Run("merges into an existing dataset", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "korea_premium.json")
		require.NoError(t, os.WriteFile(path, []byte(scrapedDataset), 0o600))

		s := NewScrapeStorage(path)

		require.NoError(t, s.UpsertScraped(context.Background(), &types.ScrapedEntry{
			Date: "2024-06-02",
			Premiums: map[types.Venue]*int64{
				"업비트": krw(120_000),
				"빗썸":  nil,
			},
		}))

		entries, err := s.LoadScraped(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, krw(587_305), entries[0].Premiums["업비트"])
		assert.Equal(t, krw(120_000), entries[1].Premiums["업비트"])
		assert.NotContains(t, entries[1].Premiums, types.Venue("코인원"))

		content, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Contains(t, string(content), `"업비트": 120000`)
		assert.Contains(t, string(content), `"빗썸": null`)
	})

	t.Run("corrupt dataset is not overwritten", func(t *testing.T) {
		t.Parallel()

		var (
			path    = filepath.Join(t.TempDir(), "korea_premium.json")
			corrupt = []byte(`{"not": "a list"}`)
		)

		require.NoError(t, os.WriteFile(path, corrupt, 0o600))

		err := NewScrapeStorage(path).UpsertScraped(context.Background(), &types.ScrapedEntry{
			Date:     "2024-06-03",
			Premiums: map[types.Venue]*int64{"업비트": krw(1)},
		})
		assert.ErrorIs(t, err, storage.ErrCorruptDataset)

		content, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Equal(t, corrupt, content)
	})

	t.Run("invalid date", func(t *testing.T) {
		t.Parallel()

		s := NewScrapeStorage(filepath.Join(t.TempDir(), "korea_premium.json"))

		assert.ErrorIs(
			t,
			s.UpsertScraped(context.Background(), &types.ScrapedEntry{Date: "06/01/2024"}),
			storage.ErrInvalidEntry,
		)
	})
}

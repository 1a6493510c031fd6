package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/types"
)

func testEntry(date string) *types.DailyEntry {
	return &types.DailyEntry{
		Date: date,
		Premiums: map[types.Venue]*types.PremiumRecord{
			types.VenueUpbit:   {KRW: 3000000, Pct: 3.0612},
			types.VenueBithumb: nil,
		},
		Meta: &types.Meta{
			USDKRW:       1400,
			GlobalBTCUSD: 70000,
			GlobalBTCKRW: 98000000,
			GlobalSource: types.SourceCoinbase.String(),
		},
	}
}

func TestStorage_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing file is empty", func(t *testing.T) {
		t.Parallel()

		s := NewStorage(filepath.Join(t.TempDir(), "nested", "data.json"))

		entries, err := s.Load(context.Background())
		require.NoError(t, err)

		assert.Empty(t, entries)
	})

	t.Run("malformed file is fatal", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"date": "2024-01-01",`), 0o600))

		_, err := NewStorage(path).Load(context.Background())

		assert.ErrorIs(t, err, storage.ErrCorruptDataset)
	})

	t.Run("entry without date is fatal", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"premiums": {}}]`), 0o600))

		_, err := NewStorage(path).Load(context.Background())

		assert.ErrorIs(t, err, storage.ErrCorruptDataset)
	})

	t.Run("sorts unsorted file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.json")
		raw := `[{"date":"2024-01-02","premiums":{}},{"date":"2024-01-01","premiums":{"upbit":null}}]`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

		entries, err := NewStorage(path).Load(context.Background())
		require.NoError(t, err)

		require.Len(t, entries, 2)
		assert.Equal(t, "2024-01-01", entries[0].Date)
		assert.Nil(t, entries[0].Premiums[types.VenueUpbit])
	})
}

func TestStorage_Upsert(t *testing.T) {
	t.Parallel()

	t.Run("first run creates the file", func(t *testing.T) {
		t.Parallel()

		var (
			path = filepath.Join(t.TempDir(), "data", "btc_premium.json")
			s    = NewStorage(path)
		)

		require.NoError(t, s.Upsert(context.Background(), testEntry("2024-06-01")))

		entries, err := s.Load(context.Background())
		require.NoError(t, err)

		require.Len(t, entries, 1)
		assert.Equal(t, "2024-06-01", entries[0].Date)
		assert.Equal(t, int64(3000000), entries[0].Premiums[types.VenueUpbit].KRW)

		// The failed venue is kept as an explicit null
		v, ok := entries[0].Premiums[types.VenueBithumb]
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("rerun overwrites the same date", func(t *testing.T) {
		t.Parallel()

		s := NewStorage(filepath.Join(t.TempDir(), "data.json"))

		first := testEntry("2024-06-01")
		second := testEntry("2024-06-01")
		second.Premiums[types.VenueUpbit] = &types.PremiumRecord{KRW: 1, Pct: 0.001}

		require.NoError(t, s.Upsert(context.Background(), testEntry("2024-05-31")))
		require.NoError(t, s.Upsert(context.Background(), first))
		require.NoError(t, s.Upsert(context.Background(), second))

		entries, err := s.Load(context.Background())
		require.NoError(t, err)

		require.Len(t, entries, 2)
		assert.Equal(t, "2024-05-31", entries[0].Date)
		assert.Equal(t, int64(1), entries[1].Premiums[types.VenueUpbit].KRW)
	})

	t.Run("corrupt file is not overwritten", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

		err := NewStorage(path).Upsert(context.Background(), testEntry("2024-06-01"))
		require.ErrorIs(t, err, storage.ErrCorruptDataset)

		content, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "not json", string(content))
	})

	t.Run("invalid entry", func(t *testing.T) {
		t.Parallel()

		s := NewStorage(filepath.Join(t.TempDir(), "data.json"))

		assert.ErrorIs(t, s.Upsert(context.Background(), nil), storage.ErrInvalidEntry)
		assert.ErrorIs(
			t,
			s.Upsert(context.Background(), &types.DailyEntry{Date: "yesterday"}),
			storage.ErrInvalidEntry,
		)
	})

	t.Run("pretty printed and unicode preserved", func(t *testing.T) {
		t.Parallel()

		var (
			path = filepath.Join(t.TempDir(), "data.json")
			s    = NewStorage(path)
			e    = testEntry("2024-06-01")
		)

		e.Premiums["빗썸"] = &types.PremiumRecord{KRW: 10, Pct: 0.1}
		e.Meta.GlobalSource = "코인베이스 & co"

		require.NoError(t, s.Upsert(context.Background(), e))

		content, err := os.ReadFile(path)
		require.NoError(t, err)

		raw := string(content)

		assert.True(t, strings.HasPrefix(raw, "[\n  {"))
		assert.Contains(t, raw, "빗썸")
		assert.Contains(t, raw, "코인베이스 & co")

		var decoded []*types.DailyEntry
		require.NoError(t, json.Unmarshal(content, &decoded))
		assert.Equal(t, []*types.DailyEntry{e}, decoded)
	})
}

func TestStorage_Queries(t *testing.T) {
	t.Parallel()

	s := NewStorage(filepath.Join(t.TempDir(), "data.json"))

	require.NoError(t, s.Upsert(context.Background(), testEntry("2024-06-01")))

	t.Run("entry by date", func(t *testing.T) {
		t.Parallel()

		e, err := s.EntryByDate(context.Background(), "2024-06-01")
		require.NoError(t, err)
		require.NotNil(t, e)

		assert.Equal(t, 1400.0, e.Meta.USDKRW)
	})

	t.Run("missing date", func(t *testing.T) {
		t.Parallel()

		e, err := s.EntryByDate(context.Background(), "2020-01-01")
		require.NoError(t, err)

		assert.Nil(t, e)
	})

	t.Run("venues", func(t *testing.T) {
		t.Parallel()

		venues, err := s.ListVenues(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []types.Venue{types.VenueBithumb, types.VenueUpbit}, venues)
	})
}

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/kpremium/storage/types"
)

func entryFor(date string, krw int64) *types.DailyEntry {
	return &types.DailyEntry{
		Date: date,
		Premiums: map[types.Venue]*types.PremiumRecord{
			types.VenueUpbit: {KRW: krw, Pct: 1.5},
		},
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("empty dataset", func(t *testing.T) {
		t.Parallel()

		e := entryFor("2024-06-01", 100)

		merged := Merge(nil, e)

		require.Len(t, merged, 1)
		assert.Equal(t, "2024-06-01", merged[0].Date)
	})

	t.Run("replaces same date entry", func(t *testing.T) {
		t.Parallel()

		var (
			old      = entryFor("2024-01-01", 1)
			newEntry = entryFor("2024-01-01", 2)
		)

		merged := Merge([]*types.DailyEntry{old}, newEntry)

		require.Len(t, merged, 1)
		assert.Same(t, newEntry, merged[0])
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		var (
			dataset = []*types.DailyEntry{
				entryFor("2024-01-03", 3),
				entryFor("2024-01-01", 1),
			}
			e = entryFor("2024-01-02", 2)
		)

		once := Merge(dataset, e)
		twice := Merge(once, e)

		assert.Equal(t, once, twice)
	})

	t.Run("sorted ascending", func(t *testing.T) {
		t.Parallel()

		var dataset []*types.DailyEntry

		for _, date := range []string{"2024-03-01", "2023-12-31", "2024-01-15", "2024-01-15", "2024-02-29"} {
			dataset = Merge(dataset, entryFor(date, 0))
		}

		require.Len(t, dataset, 4)

		for i := 1; i < len(dataset); i++ {
			assert.LessOrEqual(t, dataset[i-1].Date, dataset[i].Date)
		}
	})

	t.Run("input untouched", func(t *testing.T) {
		t.Parallel()

		dataset := []*types.DailyEntry{
			entryFor("2024-01-02", 2),
			entryFor("2024-01-01", 1),
		}

		_ = Merge(dataset, entryFor("2024-01-02", 5))

		require.Len(t, dataset, 2)
		assert.Equal(t, "2024-01-02", dataset[0].Date)
		assert.Equal(t, int64(2), dataset[0].Premiums[types.VenueUpbit].KRW)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, Validate[*types.DailyEntry](nil), ErrInvalidEntry)
	assert.ErrorIs(t, Validate(&types.DailyEntry{Date: "2024/01/01"}), ErrInvalidEntry)
	assert.NoError(t, Validate(entryFor("2024-01-01", 0)))
}

func TestVenues(t *testing.T) {
	t.Parallel()

	entries := []*types.DailyEntry{
		{
			Date: "2024-01-01",
			Premiums: map[types.Venue]*types.PremiumRecord{
				types.VenueUpbit:   nil,
				types.VenueBithumb: {KRW: 1},
			},
		},
		{
			Date: "2024-01-02",
			Premiums: map[types.Venue]*types.PremiumRecord{
				types.VenueKorbit: {KRW: 1},
			},
		},
	}

	assert.Equal(
		t,
		[]types.Venue{types.VenueBithumb, types.VenueKorbit, types.VenueUpbit},
		Venues(entries),
	)
}

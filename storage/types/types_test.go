package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey(t *testing.T) {
	t.Parallel()

	t.Run("crosses midnight in KST", func(t *testing.T) {
		t.Parallel()

		// 15:30 UTC is 00:30 the next day in KST
		at := time.Date(2024, time.May, 31, 15, 30, 0, 0, time.UTC)

		assert.Equal(t, "2024-06-01", DateKey(at, KSTOffset))
		assert.Equal(t, "2024-05-31", DateKey(at, 0))
	})

	t.Run("ignores the input location", func(t *testing.T) {
		t.Parallel()

		la := time.FixedZone("PDT", -7*60*60)
		at := time.Date(2024, time.June, 1, 8, 0, 0, 0, la) // 00:00 KST on Jun 2

		assert.Equal(t, "2024-06-02", DateKey(at, KSTOffset))
	})
}

func TestValidDate(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("2023-02-29"))
	assert.False(t, ValidDate("2024-6-1"))
	assert.False(t, ValidDate(""))
}

package storage

import (
	"encoding/json"
	"fmt"

	"github.com/sig-0/kpremium/storage/types"
)

// EncodeColumns serializes the entry's premiums and meta for
// row-oriented stores. A nil meta encodes as nil (SQL NULL)
func EncodeColumns(entry *types.DailyEntry) ([]byte, []byte, error) {
	premiums := entry.Premiums
	if premiums == nil {
		premiums = map[types.Venue]*types.PremiumRecord{}
	}

	p, err := json.Marshal(premiums)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to encode premiums: %w", err)
	}

	if entry.Meta == nil {
		return p, nil, nil
	}

	m, err := json.Marshal(entry.Meta)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to encode meta: %w", err)
	}

	return p, m, nil
}

// DecodeColumns rebuilds an entry from its row-oriented representation
func DecodeColumns(date string, premiums, meta []byte) (*types.DailyEntry, error) {
	entry := &types.DailyEntry{
		Date:     date,
		Premiums: map[types.Venue]*types.PremiumRecord{},
	}

	if len(premiums) > 0 {
		if err := json.Unmarshal(premiums, &entry.Premiums); err != nil {
			return nil, fmt.Errorf("%w: premiums for %s: %w", ErrCorruptDataset, date, err)
		}
	}

	if len(meta) > 0 {
		entry.Meta = &types.Meta{}

		if err := json.Unmarshal(meta, entry.Meta); err != nil {
			return nil, fmt.Errorf("%w: meta for %s: %w", ErrCorruptDataset, date, err)
		}
	}

	return entry, nil
}

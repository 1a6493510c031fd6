package mock

import (
	"context"

	"github.com/sig-0/kpremium/storage/types"
)

type (
	LoadDelegate        func(context.Context) ([]*types.DailyEntry, error)
	UpsertDelegate      func(context.Context, *types.DailyEntry) error
	EntryByDateDelegate func(context.Context, string) (*types.DailyEntry, error)
	ListVenuesDelegate  func(context.Context) ([]types.Venue, error)
)

type Storage struct {
	LoadFn        LoadDelegate
	UpsertFn      UpsertDelegate
	EntryByDateFn EntryByDateDelegate
	ListVenuesFn  ListVenuesDelegate
}

func (m *Storage) Load(ctx context.Context) ([]*types.DailyEntry, error) {
	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}

	return nil, nil
}

func (m *Storage) Upsert(ctx context.Context, entry *types.DailyEntry) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, entry)
	}

	return nil
}

func (m *Storage) EntryByDate(ctx context.Context, date string) (*types.DailyEntry, error) {
	if m.EntryByDateFn != nil {
		return m.EntryByDateFn(ctx, date)
	}

	return nil, nil
}

func (m *Storage) ListVenues(ctx context.Context) ([]types.Venue, error) {
	if m.ListVenuesFn != nil {
		return m.ListVenuesFn(ctx)
	}

	return nil, nil
}

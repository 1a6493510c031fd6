package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sig-0/kpremium/numeric"
	"github.com/sig-0/kpremium/storage/types"
)

// pctPlaces is the decimal precision of the stored percentage premium
const pctPlaces = 4

// ComputePremium computes the premium of a domestic KRW price over the
// global price converted to KRW. Non-positive inputs yield nil
func ComputePremium(domesticKRW, globalKRW float64) *types.PremiumRecord {
	if domesticKRW <= 0 || globalKRW <= 0 {
		return nil
	}

	return &types.PremiumRecord{
		KRW: int64(math.Round(domesticKRW - globalKRW)),
		Pct: numeric.Round((domesticKRW/globalKRW-1)*100, pctPlaces),
	}
}

// venueResult is the outcome of a single venue collection
type venueResult struct {
	err    error
	record *types.PremiumRecord
	venue  types.Venue
}

// collectPremiums fetches every venue and computes its premium.
// Results keep the registry order, and a failed venue never affects the others
func collectPremiums(
	ctx context.Context,
	logger *slog.Logger,
	venues []VenueProvider,
	globalKRW float64,
	concurrency int,
	timeout time.Duration,
) []venueResult {
	results := make([]venueResult, len(venues))

	var g errgroup.Group

	if concurrency < 1 {
		concurrency = 1
	}

	g.SetLimit(concurrency)

	for i, v := range venues {
		results[i].venue = v.Venue()

		g.Go(func() error {
			record, err := collectVenue(ctx, v, globalKRW, timeout)
			if err != nil {
				logger.Warn(
					"venue collection failed",
					"venue", v.Venue(),
					"err", err,
				)
			}

			results[i].record = record
			results[i].err = err

			// Venue failures are isolated, never propagated
			return nil
		})
	}

	_ = g.Wait()

	return results
}

func collectVenue(
	ctx context.Context,
	v VenueProvider,
	globalKRW float64,
	timeout time.Duration,
) (record *types.PremiumRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = fmt.Errorf("venue fetcher panicked: %v", r)
		}
	}()

	if timeout > 0 {
		var cancelFn context.CancelFunc

		ctx, cancelFn = context.WithTimeout(ctx, timeout)
		defer cancelFn()
	}

	price, err := v.FetchPrice(ctx)
	if err != nil {
		return nil, err
	}

	record = ComputePremium(price, globalKRW)
	if record == nil {
		return nil, fmt.Errorf("unusable price %v", price)
	}

	return record, nil
}

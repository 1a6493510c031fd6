package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sig-0/kpremium/storage/types"
)

// ErrAllProvidersFailed is matched by the error returned when no
// global price provider yields a usable price
var ErrAllProvidersFailed = errors.New("all global price providers failed")

// ProviderError is a single failed global provider attempt
type ProviderError struct {
	Err    error
	Source types.Source
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AllProvidersFailedError carries the failure of every attempted provider
type AllProvidersFailedError struct {
	Errors []*ProviderError
}

func (e *AllProvidersFailedError) Error() string {
	if len(e.Errors) == 0 {
		return ErrAllProvidersFailed.Error() + ": no providers configured"
	}

	reasons := make([]string, 0, len(e.Errors))
	for _, pErr := range e.Errors {
		reasons = append(reasons, pErr.Error())
	}

	return ErrAllProvidersFailed.Error() + ": " + strings.Join(reasons, "; ")
}

func (e *AllProvidersFailedError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

func (e *AllProvidersFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Errors))
	for _, pErr := range e.Errors {
		errs = append(errs, pErr)
	}

	return errs
}

// ResolveGlobal queries the providers in order and returns the first usable price.
// Every attempt runs under its own timeout (if positive), and a failed attempt
// falls through to the next provider
func ResolveGlobal(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	providers []PriceProvider,
) (*types.GlobalReference, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	failed := &AllProvidersFailedError{
		Errors: make([]*ProviderError, 0, len(providers)),
	}

	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("unable to resolve global price: %w", err)
		}

		price, err := fetchGlobal(ctx, timeout, p)
		if err != nil {
			logger.Warn(
				"global price provider failed",
				"source", p.Source(),
				"err", err,
			)

			failed.Errors = append(failed.Errors, &ProviderError{
				Source: p.Source(),
				Err:    err,
			})

			continue
		}

		return &types.GlobalReference{
			Source:   p.Source(),
			USDPrice: price,
		}, nil
	}

	return nil, failed
}

func fetchGlobal(ctx context.Context, timeout time.Duration, p PriceProvider) (float64, error) {
	if timeout > 0 {
		var cancelFn context.CancelFunc

		ctx, cancelFn = context.WithTimeout(ctx, timeout)
		defer cancelFn()
	}

	price, err := p.FetchPrice(ctx)
	if err != nil {
		return 0, err
	}

	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %v", price)
	}

	return price, nil
}

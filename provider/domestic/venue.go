package domestic

import (
	"context"
	"net/http"
	"time"

	"github.com/sig-0/kpremium/provider"
	"github.com/sig-0/kpremium/storage/types"
)

// extractFn pulls the raw price field out of a decoded payload
type extractFn func(ctx context.Context, client *http.Client, url string) (any, error)

// Fetcher is a single domestic venue price fetcher
type Fetcher struct {
	client  *http.Client
	extract extractFn
	venue   types.Venue
	url     string
}

func newFetcher(venue types.Venue, url string, timeout time.Duration, extract extractFn) *Fetcher {
	return &Fetcher{
		client:  provider.NewClient(timeout),
		extract: extract,
		venue:   venue,
		url:     url,
	}
}

func (f *Fetcher) Venue() types.Venue {
	return f.venue
}

// FetchPrice fetches the venue's last BTC/KRW trade price
func (f *Fetcher) FetchPrice(ctx context.Context) (float64, error) {
	raw, err := f.extract(ctx, f.client, f.url)
	if err != nil {
		return 0, err
	}

	return provider.ParsePrice(raw)
}

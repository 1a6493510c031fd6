package domestic

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sig-0/kpremium/provider"
	"github.com/sig-0/kpremium/storage/types"
)

const BithumbURL = "https://api.bithumb.com/public/ticker/BTC_KRW"

// bithumbStatusOK is the status code Bithumb returns on success
const bithumbStatusOK = "0000"

type bithumbResponse struct {
	Status string `json:"status"`
	Data   struct {
		ClosingPrice any `json:"closing_price"`
	} `json:"data"`
}

// NewBithumb creates the Bithumb BTC_KRW fetcher
func NewBithumb(url string, timeout time.Duration) *Fetcher {
	return newFetcher(types.VenueBithumb, url, timeout, extractBithumb)
}

func extractBithumb(ctx context.Context, client *http.Client, url string) (any, error) {
	var resp bithumbResponse

	if err := provider.GetJSON(ctx, client, url, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Status != bithumbStatusOK {
		return nil, fmt.Errorf("%w: bithumb status %q", provider.ErrUpstream, resp.Status)
	}

	return resp.Data.ClosingPrice, nil
}

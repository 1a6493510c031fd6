package domestic

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sig-0/kpremium/provider"
	"github.com/sig-0/kpremium/storage/types"
)

const CoinoneURL = "https://api.coinone.co.kr/public/v2/ticker_new/KRW/BTC"

type coinoneResponse struct {
	Result    string `json:"result"`
	ErrorCode string `json:"error_code"`
	Tickers   []struct {
		Last any `json:"last"`
	} `json:"tickers"`
}

// NewCoinone creates the Coinone KRW/BTC fetcher
func NewCoinone(url string, timeout time.Duration) *Fetcher {
	return newFetcher(types.VenueCoinone, url, timeout, extractCoinone)
}

func extractCoinone(ctx context.Context, client *http.Client, url string) (any, error) {
	var resp coinoneResponse

	if err := provider.GetJSON(ctx, client, url, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Result != "success" {
		return nil, fmt.Errorf(
			"%w: coinone result %q (code %s)",
			provider.ErrUpstream,
			resp.Result,
			resp.ErrorCode,
		)
	}

	if len(resp.Tickers) == 0 {
		return nil, provider.ErrNoPrice
	}

	return resp.Tickers[0].Last, nil
}

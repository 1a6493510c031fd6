package domestic

import (
	"context"
	"net/http"
	"time"

	"github.com/sig-0/kpremium/provider"
	"github.com/sig-0/kpremium/storage/types"
)

const UpbitURL = "https://api.upbit.com/v1/ticker?markets=KRW-BTC"

type upbitTicker struct {
	TradePrice any    `json:"trade_price"`
	Market     string `json:"market"`
}

// NewUpbit creates the Upbit KRW-BTC fetcher
func NewUpbit(url string, timeout time.Duration) *Fetcher {
	return newFetcher(types.VenueUpbit, url, timeout, extractUpbit)
}

func extractUpbit(ctx context.Context, client *http.Client, url string) (any, error) {
	var resp []upbitTicker

	if err := provider.GetJSON(ctx, client, url, nil, &resp); err != nil {
		return nil, err
	}

	if len(resp) == 0 {
		return nil, provider.ErrNoPrice
	}

	return resp[0].TradePrice, nil
}

package domestic

import (
	"context"
	"net/http"
	"time"

	"github.com/sig-0/kpremium/provider"
	"github.com/sig-0/kpremium/storage/types"
)

const KorbitURL = "https://api.korbit.co.kr/v1/ticker?currency_pair=btc_krw"

type korbitResponse struct {
	Last      any   `json:"last"`
	Timestamp int64 `json:"timestamp"`
}

// NewKorbit creates the Korbit btc_krw fetcher
func NewKorbit(url string, timeout time.Duration) *Fetcher {
	return newFetcher(types.VenueKorbit, url, timeout, extractKorbit)
}

func extractKorbit(ctx context.Context, client *http.Client, url string) (any, error) {
	var resp korbitResponse

	if err := provider.GetJSON(ctx, client, url, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Last, nil
}

package global

import (
	"context"
	"net/http"
	"time"

	"github.com/sig-0/kpremium/provider"
	"github.com/sig-0/kpremium/storage/types"
)

const CoinbaseURL = "https://api.coinbase.com/v2/prices/BTC-USD/spot"

type coinbaseResponse struct {
	Data struct {
		Amount   any    `json:"amount"`
		Currency string `json:"currency"`
	} `json:"data"`
}

// CoinbaseProvider fetches the Coinbase BTC-USD spot price
type CoinbaseProvider struct {
	client *http.Client
	url    string
}

// NewCoinbaseProvider creates a new instance of the Coinbase provider
func NewCoinbaseProvider(url string, timeout time.Duration) *CoinbaseProvider {
	return &CoinbaseProvider{
		client: provider.NewClient(timeout),
		url:    url,
	}
}

func (p *CoinbaseProvider) Source() types.Source {
	return types.SourceCoinbase
}

func (p *CoinbaseProvider) FetchPrice(ctx context.Context) (float64, error) {
	var resp coinbaseResponse

	if err := provider.GetJSON(ctx, p.client, p.url, nil, &resp); err != nil {
		return 0, err
	}

	return provider.ParsePrice(resp.Data.Amount)
}

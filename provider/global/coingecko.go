package global

import (
	"context"
	"net/http"
	"time"

	"github.com/sig-0/kpremium/provider"
	"github.com/sig-0/kpremium/storage/types"
)

const CoinGeckoURL = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd"

type coinGeckoResponse struct {
	Bitcoin struct {
		USD any `json:"usd"`
	} `json:"bitcoin"`
}

// CoinGeckoProvider fetches the CoinGecko aggregated BTC/USD price
type CoinGeckoProvider struct {
	client *http.Client
	url    string
}

// NewCoinGeckoProvider creates a new instance of the CoinGecko provider
func NewCoinGeckoProvider(url string, timeout time.Duration) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client: provider.NewClient(timeout),
		url:    url,
	}
}

func (p *CoinGeckoProvider) Source() types.Source {
	return types.SourceCoinGecko
}

func (p *CoinGeckoProvider) FetchPrice(ctx context.Context) (float64, error) {
	var resp coinGeckoResponse

	if err := provider.GetJSON(ctx, p.client, p.url, nil, &resp); err != nil {
		return 0, err
	}

	return provider.ParsePrice(resp.Bitcoin.USD)
}

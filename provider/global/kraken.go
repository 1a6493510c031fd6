package global

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sig-0/kpremium/provider"
	"github.com/sig-0/kpremium/storage/types"
)

const KrakenURL = "https://api.kraken.com/0/public/Ticker?pair=XBTUSD"

type krakenTicker struct {
	// c is the last trade closed: [price, lot volume]
	Close []any `json:"c"`
}

type krakenResponse struct {
	Result map[string]krakenTicker `json:"result"`
	Error  []string                `json:"error"`
}

// KrakenProvider fetches the Kraken XBT/USD last trade price
type KrakenProvider struct {
	client *http.Client
	url    string
}

// NewKrakenProvider creates a new instance of the Kraken provider
func NewKrakenProvider(url string, timeout time.Duration) *KrakenProvider {
	return &KrakenProvider{
		client: provider.NewClient(timeout),
		url:    url,
	}
}

func (p *KrakenProvider) Source() types.Source {
	return types.SourceKraken
}

func (p *KrakenProvider) FetchPrice(ctx context.Context) (float64, error) {
	var resp krakenResponse

	if err := provider.GetJSON(ctx, p.client, p.url, nil, &resp); err != nil {
		return 0, err
	}

	if len(resp.Error) > 0 {
		return 0, fmt.Errorf("%w: %s", provider.ErrUpstream, strings.Join(resp.Error, ", "))
	}

	// The pair key is normalized by Kraken (XBTUSD -> XXBTZUSD),
	// and only a single pair is requested
	for _, ticker := range resp.Result {
		if len(ticker.Close) > 0 {
			return provider.ParsePrice(ticker.Close[0])
		}
	}

	return 0, provider.ErrNoPrice
}

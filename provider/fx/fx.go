package fx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sig-0/kpremium/numeric"
	"github.com/sig-0/kpremium/provider"
)

// DefaultURL is the open ExchangeRate-API endpoint for USD based rates
const DefaultURL = "https://open.er-api.com/v6/latest/USD"

// erAPIResponse is the relevant part of the ExchangeRate-API payload
type erAPIResponse struct {
	Rates  map[string]any `json:"rates"`
	Result string         `json:"result"`
}

// ExchangeRateProvider fetches the USD/KRW rate.
// It is the single source of truth for the FX rate: no retry, no fallback
type ExchangeRateProvider struct {
	client *http.Client
	url    string
}

// NewExchangeRateProvider creates a new instance of the USD/KRW rate provider
func NewExchangeRateProvider(url string, timeout time.Duration) *ExchangeRateProvider {
	return &ExchangeRateProvider{
		client: provider.NewClient(timeout),
		url:    url,
	}
}

func (p *ExchangeRateProvider) Name() string {
	return "ExchangeRate-API"
}

func (p *ExchangeRateProvider) FetchRate(ctx context.Context) (float64, error) {
	var resp erAPIResponse

	if err := provider.GetJSON(ctx, p.client, p.url, nil, &resp); err != nil {
		return 0, err
	}

	if resp.Result != "" && resp.Result != "success" {
		return 0, fmt.Errorf("%w: result %q", provider.ErrUpstream, resp.Result)
	}

	rate, ok := numeric.Float(resp.Rates["KRW"])
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: missing or invalid rates.KRW", provider.ErrUpstream)
	}

	return rate, nil
}

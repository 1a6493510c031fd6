// Package provider holds the shared plumbing of the upstream price fetchers.
//
// Subpackages implement one upstream each:
//
//   - fx: the USD/KRW reference rate
//   - global: global BTC/USD price providers, queried in priority order
//   - domestic: domestic BTC/KRW venues
//   - coinpan: the scraped premium table
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sig-0/kpremium/numeric"
)

// DefaultTimeout is the per-request budget of every upstream call
const DefaultTimeout = 20 * time.Second

// maxBodySize caps the size of upstream payloads
const maxBodySize = 4 << 20

var (
	// ErrUpstream marks a failed upstream call (transport, status or payload)
	ErrUpstream = errors.New("upstream error")

	// ErrNoPrice is returned when the payload holds no usable price
	ErrNoPrice = errors.New("no usable price in response")
)

// NewClient creates an HTTP client with the given request timeout
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Timeout: timeout,
	}
}

// GetJSON executes a GET request and decodes the JSON response into out.
// Every failure is wrapped with ErrUpstream
func GetJSON(
	ctx context.Context,
	client *http.Client,
	url string,
	headers map[string]string,
	out any,
) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: unable to create GET request: %w", ErrUpstream, err)
	}

	req.Header.Set("Accept", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: unable to execute GET request: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: invalid status code received: %d", ErrUpstream, resp.StatusCode)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize))
	dec.UseNumber()

	if err = dec.Decode(out); err != nil {
		return fmt.Errorf("%w: unable to decode response: %w", ErrUpstream, err)
	}

	return nil
}

// ParsePrice coerces a raw payload field into a price.
// An absent, zero or negative value yields ErrNoPrice
func ParsePrice(v any) (float64, error) {
	price, ok := numeric.Float(v)
	if !ok || price <= 0 {
		return 0, ErrNoPrice
	}

	return price, nil
}

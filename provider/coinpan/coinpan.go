// Package coinpan scrapes the per-venue Korea premium table published on coinpan.com
package coinpan

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/kpremium/provider"
	"github.com/sig-0/kpremium/storage/types"
)

const (
	// DefaultURL is the page holding the premium table
	DefaultURL = "https://coinpan.com/"

	// DefaultTimeout is the page load budget
	DefaultTimeout = 30 * time.Second
)

// browserHeaders are sent with plain HTTP page loads
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (compatible; kpremium/1.0)",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "ko-KR,ko;q=0.9,en;q=0.8",
	"Referer":         DefaultURL,
}

// loadFn loads and parses the page at the given URL
type loadFn func(ctx context.Context, url string) (*goquery.Document, error)

// Scraper fetches the premium table
type Scraper struct {
	load loadFn
	url  string
}

// NewScraper creates a scraper loading the page over plain HTTP
func NewScraper(url string, timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := provider.NewClient(timeout)

	return &Scraper{
		url: url,
		load: func(ctx context.Context, url string) (*goquery.Document, error) {
			return loadHTTP(ctx, client, url)
		},
	}
}

// NewBrowserScraper creates a scraper rendering the page in headless Chrome.
// It requires a local Chrome installation
func NewBrowserScraper(url string, timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Scraper{
		url: url,
		load: func(ctx context.Context, url string) (*goquery.Document, error) {
			return loadBrowser(ctx, timeout, url)
		},
	}
}

func (s *Scraper) Name() string {
	return "coinpan"
}

// FetchPremiums loads the page and extracts every listed venue's KRW premium
func (s *Scraper) FetchPremiums(ctx context.Context) (map[types.Venue]*int64, error) {
	doc, err := s.load(ctx, s.url)
	if err != nil {
		return nil, err
	}

	return ParseTable(doc)
}

func loadHTTP(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create GET request: %w", provider.ErrUpstream, err)
	}

	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to execute GET request: %w", provider.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: invalid status code received: %d", provider.ErrUpstream, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse page: %w", provider.ErrUpstream, err)
	}

	return doc, nil
}

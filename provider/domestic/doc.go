// Package domestic provides BTC/KRW price fetchers for domestic venues.
//
// Every venue makes exactly one GET request and extracts a single field,
// each with its own response shape:
//
//	upbit    [0].trade_price          number, first element of a list
//	bithumb  data.closing_price       string, nested object field
//	coinone  tickers[0].last          string, first element of a nested list
//	korbit   last                     string, plain object field
//
// A missing or non-positive price is reported as provider.ErrNoPrice.
// Failures are returned, never swallowed; isolating a failed venue from
// the rest is the caller's concern.
package domestic

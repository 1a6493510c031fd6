// Package global provides global BTC/USD price providers.
//
// # Providers
//
// ## Coinbase
//
// Source: "coinbase"
// API: https://api.coinbase.com/v2/prices/BTC-USD/spot
//
// The spot price is read from data.amount, a numeric string.
//
// ## Kraken
//
// Source: "kraken"
// API: https://api.kraken.com/0/public/Ticker?pair=XBTUSD
//
// The last trade price is the first element of result.<pair>.c.
// A non-empty error array fails the fetch.
//
// ## CoinGecko
//
// Source: "coingecko"
// API: https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd
//
// The price is read from bitcoin.usd, a JSON number.
//
// Every provider reports a zero, negative or absent price as
// provider.ErrNoPrice, so the resolver moves on to the next one.
package global

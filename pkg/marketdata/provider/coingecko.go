package provider

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/sigwatch/sigwatch/pkg/errors"
)

const coinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// coinGeckoPageSize is the maximum page size of /coins/markets.
const coinGeckoPageSize = 250

// CoinMarket is one entry of the CoinGecko /coins/markets listing.
type CoinMarket struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	MarketCap float64 `json:"market_cap"`
}

// CoinGeckoClient fetches coin listings with market caps, used to back
// the capital-flow conditions and to name symbols in alerts.
type CoinGeckoClient struct {
	client *resty.Client
}

// NewCoinGeckoClient creates a client against the public API.
func NewCoinGeckoClient() *CoinGeckoClient {
	return &CoinGeckoClient{
		client: resty.New().SetBaseURL(coinGeckoBaseURL),
	}
}

// NewCoinGeckoClientWithBaseURL creates a client against a custom base
// URL, for tests and proxies.
func NewCoinGeckoClientWithBaseURL(baseURL string) *CoinGeckoClient {
	return &CoinGeckoClient{
		client: resty.New().SetBaseURL(baseURL),
	}
}

// FetchMarkets returns the top coins by market cap in USD, walking the
// listing page by page until `pages` pages are fetched or the listing
// ends.
func (c *CoinGeckoClient) FetchMarkets(ctx context.Context, pages int) ([]CoinMarket, error) {
	var out []CoinMarket

	for page := 1; page <= pages; page++ {
		var batch []CoinMarket

		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"vs_currency": "usd",
				"order":       "market_cap_desc",
				"per_page":    strconv.Itoa(coinGeckoPageSize),
				"page":        strconv.Itoa(page),
			}).
			SetResult(&batch).
			Get("/coins/markets")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFetchFailed, "failed to fetch coin markets", err)
		}

		if resp.IsError() {
			return nil, errors.Newf(errors.ErrCodeFetchFailed, "coin markets request returned %s", resp.Status())
		}

		out = append(out, batch...)

		if len(batch) < coinGeckoPageSize {
			break
		}
	}

	return out, nil
}

// MarketCapIndex maps lowercase base-asset symbols to their listing
// entry. When several coins share a symbol the higher-ranked one wins.
type MarketCapIndex map[string]CoinMarket

// BuildMarketCapIndex indexes a market-cap-ordered listing by symbol.
func BuildMarketCapIndex(markets []CoinMarket) MarketCapIndex {
	index := make(MarketCapIndex, len(markets))

	for _, m := range markets {
		key := strings.ToLower(m.Symbol)
		if _, ok := index[key]; !ok {
			index[key] = m
		}
	}

	return index
}

// Lookup resolves an exchange pair symbol such as BTCUSDT to its
// listing entry by stripping the quote asset.
func (idx MarketCapIndex) Lookup(pairSymbol string) (CoinMarket, bool) {
	base := strings.ToLower(pairSymbol)
	for _, quote := range []string{"usdt", "usdc", "busd", "btc", "eth"} {
		if strings.HasSuffix(base, quote) && len(base) > len(quote) {
			base = strings.TrimSuffix(base, quote)
			break
		}
	}

	market, ok := idx[base]

	return market, ok
}

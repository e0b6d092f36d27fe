// Package provider contains the market data fetch contracts and their
// exchange implementations. The engine packages depend only on the
// interfaces here; a failing upstream is reported as an error and the
// callers decide whether to fail soft.
package provider

import (
	"context"
	"time"

	"github.com/sigwatch/sigwatch/internal/types"
)

// OnFetchProgress reports pagination progress while a historical fetch
// walks a long date range. current and total are in the fetch's own
// units (milliseconds of the covered span).
type OnFetchProgress func(current, total float64, message string)

// HistoricalFetcher fetches OHLCV bars for one symbol and date range at
// a fixed interval, in chronological order. An empty range yields an
// empty slice, not an error.
type HistoricalFetcher interface {
	FetchHistorical(ctx context.Context, symbol string, interval types.Interval, start, end time.Time, onProgress OnFetchProgress) ([]types.MarketData, error)
}

// TickerFetcher fetches the current 24h ticker statistics for every
// symbol on the exchange.
type TickerFetcher interface {
	FetchTickers(ctx context.Context) ([]types.TickerStats, error)
}

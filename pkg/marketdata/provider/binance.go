package provider

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/sigwatch/sigwatch/pkg/errors"
)

// binancePageSize is the kline page limit the public API enforces.
const binancePageSize = 500

// BinanceFetcher fetches historical klines and 24h ticker statistics
// from the Binance public market data API. No credentials are needed.
type BinanceFetcher struct {
	client *binance.Client
}

// NewBinanceFetcher creates a fetcher against the public endpoints.
func NewBinanceFetcher() *BinanceFetcher {
	return &BinanceFetcher{
		client: binance.NewClient("", ""),
	}
}

// FetchHistorical pages through the klines endpoint until the requested
// range is covered and returns the bars in chronological order. A range
// with no listed data returns an empty slice.
func (f *BinanceFetcher) FetchHistorical(ctx context.Context, symbol string, interval types.Interval, start, end time.Time, onProgress OnFetchProgress) ([]types.MarketData, error) {
	startMillis := start.UnixMilli()
	endMillis := end.UnixMilli()

	if endMillis <= startMillis {
		return nil, errors.Newf(errors.ErrCodeInvalidTimeRange, "end %s is not after start %s", end, start)
	}

	var out []types.MarketData

	currentStart := startMillis

	for {
		klines, err := f.client.NewKlinesService().
			Symbol(symbol).
			Interval(string(interval)).
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binancePageSize).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch %s %s klines", symbol, interval)
		}

		out = append(out, klinesToMarketData(symbol, klines)...)

		if onProgress != nil {
			onProgress(float64(currentStart-startMillis), float64(endMillis-startMillis), "fetching "+symbol+" klines")
		}

		if len(klines) < binancePageSize {
			break
		}

		// Resume after the close of the last bar to avoid duplicates.
		currentStart = klines[len(klines)-1].CloseTime + 1
		if currentStart >= endMillis {
			break
		}
	}

	if onProgress != nil {
		total := float64(endMillis - startMillis)
		onProgress(total, total, "fetched "+symbol+" klines")
	}

	return out, nil
}

// FetchTickers returns the 24h rolling statistics for every symbol.
func (f *BinanceFetcher) FetchTickers(ctx context.Context) ([]types.TickerStats, error) {
	stats, err := f.client.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, "failed to fetch ticker statistics", err)
	}

	out := make([]types.TickerStats, 0, len(stats))
	for _, s := range stats {
		out = append(out, priceChangeStatsToTicker(s))
	}

	return out, nil
}

func klinesToMarketData(symbol string, klines []*binance.Kline) []types.MarketData {
	out := make([]types.MarketData, 0, len(klines))

	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		out = append(out, types.MarketData{
			Symbol: symbol,
			Time:   time.UnixMilli(k.OpenTime),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return out
}

func priceChangeStatsToTicker(s *binance.PriceChangeStats) types.TickerStats {
	lastPrice, _ := strconv.ParseFloat(s.LastPrice, 64)
	changePct, _ := strconv.ParseFloat(s.PriceChangePercent, 64)
	quoteVolume, _ := strconv.ParseFloat(s.QuoteVolume, 64)

	return types.TickerStats{
		Symbol:            s.Symbol,
		LastPrice:         lastPrice,
		PriceChangePct24h: changePct,
		QuoteVolume24h:    quoteVolume,
	}
}

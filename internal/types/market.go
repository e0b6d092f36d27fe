package types

import "time"

// MarketData represents a single OHLCV bar for one symbol.
type MarketData struct {
	Id     string    `json:"id"`
	Symbol string    `json:"symbol"`
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Interval is the bar interval of an OHLCV series.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

// Duration returns the wall-clock length of one bar.
func (i Interval) Duration() time.Duration {
	switch i {
	case Interval1m:
		return time.Minute
	case Interval5m:
		return 5 * time.Minute
	case Interval15m:
		return 15 * time.Minute
	case Interval30m:
		return 30 * time.Minute
	case Interval1h:
		return time.Hour
	case Interval4h:
		return 4 * time.Hour
	case Interval1d:
		return 24 * time.Hour
	default:
		return 0
	}
}

// TickerStats holds the 24h rolling ticker statistics for one symbol.
type TickerStats struct {
	Symbol            string  `json:"symbol"`
	LastPrice         float64 `json:"last_price"`
	PriceChangePct24h float64 `json:"price_change_pct_24h"`
	QuoteVolume24h    float64 `json:"quote_volume_24h"`
}

// Closes extracts the close column of a series.
func Closes(data []MarketData) []float64 {
	out := make([]float64, len(data))
	for i, d := range data {
		out[i] = d.Close
	}

	return out
}

// Highs extracts the high column of a series.
func Highs(data []MarketData) []float64 {
	out := make([]float64, len(data))
	for i, d := range data {
		out[i] = d.High
	}

	return out
}

// Lows extracts the low column of a series.
func Lows(data []MarketData) []float64 {
	out := make([]float64, len(data))
	for i, d := range data {
		out[i] = d.Low
	}

	return out
}

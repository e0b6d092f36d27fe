package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// BollingerSignal is the position of the last price relative to the bands.
type BollingerSignal string

const (
	BollingerNone  BollingerSignal = "none"
	BollingerAbove BollingerSignal = "above"
	BollingerBelow BollingerSignal = "below"
)

// Snapshot is the consolidated per-symbol indicator state produced by the
// live analyzer for one instant. A too-short OHLCV window yields a
// zero-valued snapshot rather than an error.
type Snapshot struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Time      time.Time `json:"timestamp"`
	LastPrice float64   `json:"last_price"`

	PriceChangePct24h float64                  `json:"price_change_pct_24h"`
	QuoteVolume24h    float64                  `json:"quote_volume_24h"`
	MarketCap         optional.Option[float64] `json:"market_cap"`

	// RSI is NaN until the window covers the configured period.
	RSI             float64         `json:"rsi"`
	BollingerSignal BollingerSignal `json:"bollinger_signal"`

	MACDCross     CrossState `json:"macd_cross"`
	MACDValue     float64    `json:"macd_value"`
	MACDSignal    float64    `json:"macd_signal"`
	MACDHistogram float64    `json:"macd_histogram"`

	EMACross EMACrossState `json:"ema_cross"`
	EMA200   float64       `json:"ema_200"`

	HiLo HiLoState `json:"hilo"`

	// MACross holds the price/EMA crossover state per period, only for
	// periods where a cross occurred on the latest bar.
	MACross map[int]MAState `json:"ma_cross,omitempty"`

	HMA           float64 `json:"hma"`
	PriceAboveHMA bool    `json:"price_above_hma"`

	VWAP           float64 `json:"vwap"`
	PriceAboveVWAP bool    `json:"price_above_vwap"`
}

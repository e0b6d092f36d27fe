// Package live evaluates alert conditions against the current market
// state, one symbol at a time: an analyzer turns a rolling OHLCV window
// into an indicator snapshot, and an evaluator applies the configured
// conditions to that snapshot with cooldown and death-cross-filter
// suppression.
package live

import (
	"math"
	"time"

	"github.com/moznion/go-optional"

	"github.com/sigwatch/sigwatch/internal/alertcfg"
	"github.com/sigwatch/sigwatch/internal/indicator"
	"github.com/sigwatch/sigwatch/internal/types"
)

// emaLongPeriod is the long leg of the golden/death cross and the EMA
// level included in every snapshot.
const emaLongPeriod = 200

// Analyzer computes per-symbol indicator snapshots. It is stateless;
// all live state lives in the cooldown store and cross filter.
type Analyzer struct {
	params alertcfg.Parameters
}

// NewAnalyzer creates an analyzer with the given indicator parameters.
func NewAnalyzer(params alertcfg.Parameters) *Analyzer {
	return &Analyzer{params: params}
}

// Analyze consolidates the window's indicators into one snapshot. Every
// indicator degrades independently: whichever ones the window is too
// short for stay at their zero values.
func (a *Analyzer) Analyze(window []types.MarketData, stats types.TickerStats, marketCap optional.Option[float64], name string) types.Snapshot {
	snapshot := types.Snapshot{
		Symbol:            stats.Symbol,
		Name:              name,
		Time:              time.Now().UTC(),
		LastPrice:         stats.LastPrice,
		PriceChangePct24h: stats.PriceChangePct24h,
		QuoteVolume24h:    stats.QuoteVolume24h,
		MarketCap:         marketCap,
		RSI:               math.NaN(),
		BollingerSignal:   types.BollingerNone,
		MACDCross:         types.CrossNone,
		EMACross:          types.EMACrossNone,
		HiLo:              types.HiLoNone,
	}

	if len(window) == 0 {
		return snapshot
	}

	if !window[len(window)-1].Time.IsZero() {
		snapshot.Time = window[len(window)-1].Time
	}

	lastClose := window[len(window)-1].Close
	closes := types.Closes(window)

	// NaN marks an unwarmed window; a genuine 0 from a strictly falling
	// tape stays distinguishable.
	snapshot.RSI = indicator.RSILatest(window, a.params.RSIPeriod)

	upper, _, lower := indicator.BollingerLatest(window, a.params.BollingerPeriod, a.params.BollingerStdDev)
	switch {
	case indicator.Defined(upper) && lastClose > upper:
		snapshot.BollingerSignal = types.BollingerAbove
	case indicator.Defined(lower) && lastClose < lower:
		snapshot.BollingerSignal = types.BollingerBelow
	}

	cross, macd, signal, histogram := indicator.MACDLatest(window, a.params.MACDFast, a.params.MACDSlow, a.params.MACDSignal)
	snapshot.MACDCross = cross
	if indicator.Defined(macd) {
		snapshot.MACDValue = macd
		snapshot.MACDSignal = signal
		snapshot.MACDHistogram = histogram
	}

	emaStates := indicator.GoldenDeathSeries(window)
	if len(emaStates) > 0 {
		snapshot.EMACross = emaStates[len(emaStates)-1]
	}

	if longEMA := indicator.EMA(closes, emaLongPeriod); len(longEMA) > 0 && indicator.Defined(longEMA[len(longEMA)-1]) {
		snapshot.EMA200 = longEMA[len(longEMA)-1]
	}

	snapshot.HiLo = indicator.HiLoLatest(window, a.params.HiLoLength, indicator.MATypeEMA, 0)

	snapshot.MACross = make(map[int]types.MAState)
	for _, period := range indicator.LiveMACrossPeriods {
		if state := indicator.MACrossLatest(window, period); state != types.MANone {
			snapshot.MACross[period] = state
		}
	}

	if hma := indicator.HMALatest(closes, a.params.HMAPeriod); indicator.Defined(hma) {
		snapshot.HMA = hma
		snapshot.PriceAboveHMA = lastClose > hma
	}

	if vwap := indicator.VWAPLatest(window); !math.IsNaN(vwap) {
		snapshot.VWAP = vwap
		snapshot.PriceAboveVWAP = lastClose > vwap
	}

	return snapshot
}

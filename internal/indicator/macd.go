package indicator

import (
	"math"

	"github.com/sigwatch/sigwatch/internal/types"
)

// Default MACD parameters.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACDResult holds the MACD line, signal line, histogram and per-bar
// crossover state, all aligned with the input series.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
	Cross     []types.CrossState
}

// MACDSeries computes MACD over the close column. The MACD line is
// EMA(close, fast) - EMA(close, slow); the signal line is the EMA of the
// MACD line over signalPeriod. A bar is flagged CrossBullish when the MACD
// line closes above the signal line after being below it on the previous
// bar, CrossBearish for the opposite, CrossNone otherwise (including the
// whole warm-up region).
func MACDSeries(data []types.MarketData, fast, slow, signalPeriod int) MACDResult {
	n := len(data)
	result := MACDResult{
		MACD:      nanSeries(n),
		Signal:    nanSeries(n),
		Histogram: nanSeries(n),
		Cross:     make([]types.CrossState, n),
	}

	for i := range result.Cross {
		result.Cross[i] = types.CrossNone
	}

	if fast <= 0 || slow <= 0 || signalPeriod <= 0 || n < slow {
		return result
	}

	closes := types.Closes(data)

	// Run the EMA recursions over every bar so the signal line sees the
	// same macd history a bar-by-bar live computation would.
	fastEMA := emaAll(closes, fast)
	slowEMA := emaAll(closes, slow)

	macdLine := make([]float64, n)
	for i := 0; i < n; i++ {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine := emaAll(macdLine, signalPeriod)

	// Report values only past the warm-up boundaries.
	macdStart := slow - 1
	signalStart := slow + signalPeriod - 2

	for i := macdStart; i < n; i++ {
		result.MACD[i] = macdLine[i]
	}

	for i := signalStart; i < n; i++ {
		if i < 0 {
			continue
		}

		result.Signal[i] = signalLine[i]
		result.Histogram[i] = macdLine[i] - signalLine[i]
	}

	for i := signalStart + 1; i < n; i++ {
		if i < 1 {
			continue
		}

		prevDiff := macdLine[i-1] - signalLine[i-1]
		currDiff := macdLine[i] - signalLine[i]

		switch {
		case prevDiff < 0 && currDiff > 0:
			result.Cross[i] = types.CrossBullish
		case prevDiff > 0 && currDiff < 0:
			result.Cross[i] = types.CrossBearish
		}
	}

	return result
}

// MACDLatest returns the crossover state of the last bar plus the latest
// macd, signal and histogram values. Too-short windows yield CrossNone and
// NaN values.
func MACDLatest(data []types.MarketData, fast, slow, signalPeriod int) (types.CrossState, float64, float64, float64) {
	result := MACDSeries(data, fast, slow, signalPeriod)
	if len(data) == 0 {
		return types.CrossNone, math.NaN(), math.NaN(), math.NaN()
	}

	last := len(data) - 1

	return result.Cross[last], result.MACD[last], result.Signal[last], result.Histogram[last]
}

package indicator

import (
	"math"

	"github.com/sigwatch/sigwatch/internal/types"
)

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// RSISeries computes the Relative Strength Index of the close column over
// a rolling window of period deltas (simple rolling mean of gains and
// losses). The series needs period+1 bars; shorter input is all NaN and
// the first defined value appears at index period.
//
// Saturation policy: a window with no gains yields 0 (this also covers a
// completely flat window), otherwise a window with no losses yields 100.
func RSISeries(data []types.MarketData, period int) []float64 {
	out := nanSeries(len(data))
	if period <= 0 || len(data) < period+1 {
		return out
	}

	gains := make([]float64, len(data))
	losses := make([]float64, len(data))

	for i := 1; i < len(data); i++ {
		change := data[i].Close - data[i-1].Close
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	sumGain := 0.0
	sumLoss := 0.0

	for i := 1; i < len(data); i++ {
		sumGain += gains[i]
		sumLoss += losses[i]

		if i > period {
			sumGain -= gains[i-period]
			sumLoss -= losses[i-period]
		}

		if i < period {
			continue
		}

		avgGain := sumGain / float64(period)
		avgLoss := sumLoss / float64(period)

		switch {
		case avgGain == 0:
			out[i] = 0
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}

	return out
}

// RSILatest returns the RSI value for the last bar of the window, or NaN
// when the window is too short.
func RSILatest(data []types.MarketData, period int) float64 {
	series := RSISeries(data, period)
	if len(series) == 0 {
		return math.NaN()
	}

	return series[len(series)-1]
}

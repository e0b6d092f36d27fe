package indicator

import (
	"math"

	"github.com/sigwatch/sigwatch/internal/types"
)

// Default Bollinger Bands parameters.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerStdDev = 2.0
)

// BollingerResult holds the three Bollinger Bands series, aligned with the
// input. Middle is the SMA of the close; Upper/Lower are middle +/- stdDev
// rolling standard deviations (sample deviation, matching the usual
// charting convention).
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// BollingerSeries computes Bollinger Bands over the close column. Entries
// before the warm-up boundary (period-1) are NaN; a series shorter than
// period is all NaN.
func BollingerSeries(data []types.MarketData, period int, stdDev float64) BollingerResult {
	n := len(data)
	result := BollingerResult{
		Upper:  nanSeries(n),
		Middle: nanSeries(n),
		Lower:  nanSeries(n),
	}

	if period <= 1 || n < period {
		return result
	}

	closes := types.Closes(data)
	result.Middle = SMA(closes, period)

	for i := period - 1; i < n; i++ {
		mean := result.Middle[i]

		var sq float64

		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - mean
			sq += d * d
		}

		sd := math.Sqrt(sq / float64(period-1))
		result.Upper[i] = mean + stdDev*sd
		result.Lower[i] = mean - stdDev*sd
	}

	return result
}

// BollingerLatest returns the latest upper, middle and lower band values,
// each NaN when the window is too short.
func BollingerLatest(data []types.MarketData, period int, stdDev float64) (upper, middle, lower float64) {
	result := BollingerSeries(data, period, stdDev)
	if len(data) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}

	last := len(data) - 1

	return result.Upper[last], result.Middle[last], result.Lower[last]
}

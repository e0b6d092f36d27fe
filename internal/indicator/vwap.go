package indicator

import (
	"math"

	"github.com/sigwatch/sigwatch/internal/types"
)

// VWAPSeries computes the volume-weighted average price cumulatively from
// the start of the given slice; the caller controls the anchoring window
// by choosing which slice of history to pass. Bars before any volume has
// accumulated are NaN.
func VWAPSeries(data []types.MarketData) []float64 {
	out := nanSeries(len(data))

	var cumPV, cumVol float64

	for i, d := range data {
		cumPV += d.Close * d.Volume
		cumVol += d.Volume

		if cumVol > 0 {
			out[i] = cumPV / cumVol
		}
	}

	return out
}

// VWAPLatest returns the VWAP at the last bar of the slice.
func VWAPLatest(data []types.MarketData) float64 {
	series := VWAPSeries(data)
	if len(series) == 0 {
		return math.NaN()
	}

	return series[len(series)-1]
}

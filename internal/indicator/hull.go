package indicator

import "math"

// DefaultHMAPeriod is the Hull Moving Average period used by the live analyzer.
const DefaultHMAPeriod = 21

// HMA computes the Hull Moving Average:
//
//	WMA(2*WMA(values, period/2) - WMA(values, period), round(sqrt(period)))
//
// Undefined (NaN) until enough bars exist for the final smoothing pass.
func HMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 1 || len(values) < period {
		return out
	}

	half := period / 2
	if half < 1 {
		half = 1
	}

	sqrtPeriod := int(math.Round(math.Sqrt(float64(period))))
	if sqrtPeriod < 1 {
		sqrtPeriod = 1
	}

	halfWMA := WMA(values, half)
	fullWMA := WMA(values, period)

	raw := make([]float64, len(values))
	for i := range values {
		raw[i] = 2*halfWMA[i] - fullWMA[i]
	}

	return WMA(raw, sqrtPeriod)
}

// HMALatest returns the HMA value at the last bar, or NaN for short windows.
func HMALatest(values []float64, period int) float64 {
	series := HMA(values, period)
	if len(series) == 0 {
		return math.NaN()
	}

	return series[len(series)-1]
}

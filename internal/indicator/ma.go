package indicator

import (
	"math"
	"sort"

	"github.com/sigwatch/sigwatch/internal/types"
)

// MAType selects the moving-average flavor used by indicators that can
// run on either a simple or an exponential mean.
type MAType string

const (
	MATypeSMA MAType = "SMA"
	MATypeEMA MAType = "EMA"
)

// SMA computes the simple moving average of values over period. The first
// period-1 entries are NaN; a series shorter than period is all NaN.
func SMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}

	return out
}

// EMA computes the exponential moving average of values over period, with
// smoothing factor 2/(period+1). The recursion is seeded with the first
// value; entries before the warm-up boundary (period-1) are reported as
// NaN so that downstream consumers treat them as undefined.
func EMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	alpha := 2.0 / (float64(period) + 1.0)
	ema := values[0]

	for i, v := range values {
		if i > 0 {
			ema = alpha*v + (1-alpha)*ema
		}

		if i >= period-1 {
			out[i] = ema
		}
	}

	return out
}

// emaAll runs the same EMA recursion but reports every bar, including the
// warm-up region. MACD needs this so its signal line sees the full macd
// line exactly as the latest-mode computation does.
func emaAll(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) == 0 {
		return out
	}

	alpha := 2.0 / (float64(period) + 1.0)

	started := false

	var ema float64

	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}

		if !started {
			ema = v
			started = true
		} else {
			ema = alpha*v + (1-alpha)*ema
		}

		out[i] = ema
	}

	return out
}

// WMA computes the linearly-weighted moving average with weights 1..period.
func WMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	denom := float64(period*(period+1)) / 2.0

	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		defined := true

		for j := 0; j < period; j++ {
			v := values[i-period+1+j]
			if math.IsNaN(v) {
				defined = false

				break
			}

			sum += v * float64(j+1)
		}

		if defined {
			out[i] = sum / denom
		}
	}

	return out
}

// EMASet computes the EMA of the close column for every requested period,
// skipping periods longer than the available data.
func EMASet(data []types.MarketData, periods []int) map[int][]float64 {
	out := make(map[int][]float64, len(periods))
	if len(data) == 0 {
		return out
	}

	closes := types.Closes(data)

	sorted := append([]int(nil), periods...)
	sort.Ints(sorted)

	for _, period := range sorted {
		if period <= 0 || len(data) < period {
			continue
		}

		out[period] = EMA(closes, period)
	}

	return out
}

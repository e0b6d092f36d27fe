package indicator

import "github.com/sigwatch/sigwatch/internal/types"

// DefaultHiLoLength is the conventional HiLo channel length.
const DefaultHiLoLength = 34

// HiLoSeries computes the HiLo channel signal per bar: a moving average of
// the high column and one of the low column (EMA or SMA per maType),
// optionally shifted forward by offset bars. A bar is HiLoBuy where the
// close crosses above the high-MA and HiLoSell where it crosses below the
// low-MA; everything else, warm-up included, is HiLoNone.
func HiLoSeries(data []types.MarketData, length int, maType MAType, offset int) []types.HiLoState {
	n := len(data)
	out := make([]types.HiLoState, n)

	for i := range out {
		out[i] = types.HiLoNone
	}

	if length <= 0 || offset < 0 || n < length+offset+1 {
		return out
	}

	var hiMA, loMA []float64

	if maType == MATypeSMA {
		hiMA = SMA(types.Highs(data), length)
		loMA = SMA(types.Lows(data), length)
	} else {
		hiMA = EMA(types.Highs(data), length)
		loMA = EMA(types.Lows(data), length)
	}

	for i := 1; i < n; i++ {
		prev, curr := i-1-offset, i-offset
		if prev < 0 {
			continue
		}

		if !Defined(hiMA[prev]) || !Defined(hiMA[curr]) || !Defined(loMA[prev]) || !Defined(loMA[curr]) {
			continue
		}

		switch {
		case data[i-1].Close <= hiMA[prev] && data[i].Close > hiMA[curr]:
			out[i] = types.HiLoBuy
		case data[i-1].Close >= loMA[prev] && data[i].Close < loMA[curr]:
			out[i] = types.HiLoSell
		}
	}

	return out
}

// HiLoLatest returns the HiLo state of the last bar of the window.
func HiLoLatest(data []types.MarketData, length int, maType MAType, offset int) types.HiLoState {
	series := HiLoSeries(data, length, maType, offset)
	if len(series) == 0 {
		return types.HiLoNone
	}

	return series[len(series)-1]
}

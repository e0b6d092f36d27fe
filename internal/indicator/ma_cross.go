package indicator

import "github.com/sigwatch/sigwatch/internal/types"

// HistoricalMACrossPeriods is the fixed period set the historical scanner
// evaluates for the generic moving-average-cross condition family.
var HistoricalMACrossPeriods = []int{17, 34, 72, 144}

// LiveMACrossPeriods is the wider period set the live analyzer reports.
var LiveMACrossPeriods = []int{17, 34, 72, 90, 100, 144, 200}

// MACrossSeries flags, per bar, the close price crossing its EMA over the
// given period: MACrossUp where the close moves from at-or-below the EMA
// to above it, MACrossDown for the opposite. Needs period+1 bars.
func MACrossSeries(data []types.MarketData, period int) []types.MAState {
	n := len(data)
	out := make([]types.MAState, n)

	for i := range out {
		out[i] = types.MANone
	}

	if period <= 0 || n < period+1 {
		return out
	}

	ema := EMA(types.Closes(data), period)

	for i := 1; i < n; i++ {
		if !Defined(ema[i-1]) || !Defined(ema[i]) {
			continue
		}

		switch {
		case data[i-1].Close <= ema[i-1] && data[i].Close > ema[i]:
			out[i] = types.MACrossUp
		case data[i-1].Close >= ema[i-1] && data[i].Close < ema[i]:
			out[i] = types.MACrossDown
		}
	}

	return out
}

// MACrossLatest returns the cross state at the last bar of the window.
func MACrossLatest(data []types.MarketData, period int) types.MAState {
	series := MACrossSeries(data, period)
	if len(series) == 0 {
		return types.MANone
	}

	return series[len(series)-1]
}

// EMACrossSeries flags golden/death crosses between a short and a long EMA
// series (conventionally EMA 50 and EMA 200 of the close). Bars where
// either input is still warming up stay EMACrossNone.
func EMACrossSeries(short, long []float64) []types.EMACrossState {
	n := len(short)
	if len(long) < n {
		n = len(long)
	}

	out := make([]types.EMACrossState, n)
	for i := range out {
		out[i] = types.EMACrossNone
	}

	for i := 1; i < n; i++ {
		if !Defined(short[i-1]) || !Defined(short[i]) || !Defined(long[i-1]) || !Defined(long[i]) {
			continue
		}

		switch {
		case short[i-1] < long[i-1] && short[i] > long[i]:
			out[i] = types.GoldenCross
		case short[i-1] > long[i-1] && short[i] < long[i]:
			out[i] = types.DeathCross
		}
	}

	return out
}

// GoldenDeathSeries computes the EMA(50)/EMA(200) crossover states of a
// series, or all EMACrossNone when the window is shorter than 200 bars.
func GoldenDeathSeries(data []types.MarketData) []types.EMACrossState {
	out := make([]types.EMACrossState, len(data))
	for i := range out {
		out[i] = types.EMACrossNone
	}

	emas := EMASet(data, []int{50, 200})

	short, okShort := emas[50]
	long, okLong := emas[200]

	if !okShort || !okLong {
		return out
	}

	return EMACrossSeries(short, long)
}

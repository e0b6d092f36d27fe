package indicator

import (
	"math"
	"time"

	"github.com/sigwatch/sigwatch/internal/types"
)

// barsFromCloses builds an hourly OHLCV series where every column follows
// the close, which is all the close-driven indicators need.
func barsFromCloses(closes []float64) []types.MarketData {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	data := make([]types.MarketData, len(closes))

	for i, c := range closes {
		data[i] = types.MarketData{
			Symbol: "BTCUSDT",
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: 100,
		}
	}

	return data
}

// rampCloses builds a piecewise-linear close sequence: flat, then a
// straight move from the current level to target over n bars, repeatable.
func rampCloses(segments ...[2]float64) []float64 {
	var out []float64

	level := segments[0][0]

	for _, seg := range segments {
		target, n := seg[0], int(seg[1])
		for i := 1; i <= n; i++ {
			out = append(out, level+(target-level)*float64(i)/float64(n))
		}

		level = target
	}

	return out
}

// walkCloses builds a deterministic pseudo-random walk for property tests.
func walkCloses(n int, seed int64) []float64 {
	out := make([]float64, n)
	price := 100.0
	state := uint64(seed)

	for i := 0; i < n; i++ {
		// xorshift64
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17

		step := float64(int64(state%2001)-1000) / 500.0
		price += step

		if price < 1 {
			price = 1
		}

		out[i] = price
	}

	return out
}

func allNaN(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) {
			return false
		}
	}

	return true
}

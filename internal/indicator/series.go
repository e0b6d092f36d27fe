// Package indicator implements vectorized technical-indicator math over
// OHLCV series. Every function is pure and deterministic: it performs no
// I/O, touches no shared state, and is safe to call concurrently as long
// as each call receives its own input slice.
//
// Full-series functions return an output aligned index-for-index with the
// input, with NaN (or the zero enum state) filling the warm-up period.
// Latest-only helpers are defined as the last element of the full-series
// computation, so the two modes can never diverge.
package indicator

import "math"

// nanSeries returns a slice of n NaN values.
func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

// Defined reports whether a series value is usable (not NaN).
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

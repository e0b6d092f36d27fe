package stream

import (
	"sync"

	"github.com/sigwatch/sigwatch/internal/types"
)

// WindowSet maintains a fixed-capacity rolling OHLCV window per symbol,
// fed by kline events. An event for a bar already at the tail replaces
// it (open bars update in place); a newer bar appends and evicts the
// oldest once the window is full.
type WindowSet struct {
	mu       sync.Mutex
	capacity int
	windows  map[string][]types.MarketData
}

// NewWindowSet creates a window set holding up to capacity bars per
// symbol.
func NewWindowSet(capacity int) *WindowSet {
	return &WindowSet{
		capacity: capacity,
		windows:  make(map[string][]types.MarketData),
	}
}

// Apply folds one kline event into the symbol's window.
func (w *WindowSet) Apply(event KlineEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	data := w.windows[event.Symbol]

	if n := len(data); n > 0 && data[n-1].Time.Equal(event.Bar.Time) {
		data[n-1] = event.Bar
		w.windows[event.Symbol] = data

		return
	}

	data = append(data, event.Bar)
	if len(data) > w.capacity {
		data = data[len(data)-w.capacity:]
	}

	w.windows[event.Symbol] = data
}

// Seed preloads a symbol's window with historical bars, keeping the
// most recent up to capacity.
func (w *WindowSet) Seed(symbol string, data []types.MarketData) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(data) > w.capacity {
		data = data[len(data)-w.capacity:]
	}

	window := make([]types.MarketData, len(data))
	copy(window, data)

	w.windows[symbol] = window
}

// Window returns a copy of the symbol's current window.
func (w *WindowSet) Window(symbol string) []types.MarketData {
	w.mu.Lock()
	defer w.mu.Unlock()

	data := w.windows[symbol]
	out := make([]types.MarketData, len(data))
	copy(out, data)

	return out
}

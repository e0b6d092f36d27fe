package live

import (
	"sync"
	"time"

	"github.com/sigwatch/sigwatch/internal/types"
)

// CooldownStore tracks, per (symbol, condition), when a condition last
// fired. A condition is Armed until it fires, then in cooldown until
// the window elapses, then Armed again. The store is the single owner
// of this state; configuration objects stay immutable.
type CooldownStore struct {
	mu   sync.Mutex
	last map[cooldownKey]time.Time
}

type cooldownKey struct {
	symbol    string
	condition types.ConditionKey
}

// NewCooldownStore creates an empty store.
func NewCooldownStore() *CooldownStore {
	return &CooldownStore{
		last: make(map[cooldownKey]time.Time),
	}
}

// Armed reports whether the condition may fire for the symbol at the
// given instant under the given cooldown window.
func (s *CooldownStore) Armed(symbol string, condition types.ConditionKey, now time.Time, cooldown time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	fired, ok := s.last[cooldownKey{symbol: symbol, condition: condition}]
	if !ok {
		return true
	}

	return now.After(fired.Add(cooldown))
}

// Trigger records a firing, starting the condition's cooldown.
func (s *CooldownStore) Trigger(symbol string, condition types.ConditionKey, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last[cooldownKey{symbol: symbol, condition: condition}] = now
}

// Reset clears all cooldowns for a symbol.
func (s *CooldownStore) Reset(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.last {
		if k.symbol == symbol {
			delete(s.last, k)
		}
	}
}

// FilterState is the per-symbol death-cross filter state.
type FilterState string

const (
	// FilterArmed is the normal state; nothing is suppressed.
	FilterArmed FilterState = "armed"
	// FilterFiltered is entered by a death cross and suppresses
	// buy-side conditions until a golden cross.
	FilterFiltered FilterState = "filtered"
)

// CrossFilter is the explicit state machine behind the death-cross
// suppression rule: after a death cross, buy-side signals (HiLo buy and
// upward MA crosses) are suppressed for the symbol regardless of their
// own cooldowns, until a golden cross flips the state back.
type CrossFilter struct {
	mu     sync.Mutex
	states map[string]FilterState
}

// NewCrossFilter creates a filter with every symbol armed.
func NewCrossFilter() *CrossFilter {
	return &CrossFilter{
		states: make(map[string]FilterState),
	}
}

// Observe feeds the symbol's latest EMA cross state into the machine
// and returns the resulting filter state.
func (f *CrossFilter) Observe(symbol string, cross types.EMACrossState) FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch cross {
	case types.DeathCross:
		f.states[symbol] = FilterFiltered
	case types.GoldenCross:
		f.states[symbol] = FilterArmed
	}

	return f.stateLocked(symbol)
}

// State returns the symbol's current filter state.
func (f *CrossFilter) State(symbol string) FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.stateLocked(symbol)
}

func (f *CrossFilter) stateLocked(symbol string) FilterState {
	if state, ok := f.states[symbol]; ok {
		return state
	}

	return FilterArmed
}

// Suppresses reports whether the filter state blocks the condition.
func (state FilterState) Suppresses(condition types.ConditionKey) bool {
	if state != FilterFiltered {
		return false
	}

	return condition == types.ConditionHiLoBuy || types.IsMACrossUpKey(condition)
}

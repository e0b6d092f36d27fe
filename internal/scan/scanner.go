// Package scan implements the historical alert scanner: it replays an
// alert configuration over one symbol's OHLCV history and produces the
// chronological list of alerts that would have fired.
package scan

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sigwatch/sigwatch/internal/alertcfg"
	"github.com/sigwatch/sigwatch/internal/logger"
	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/sigwatch/sigwatch/pkg/marketdata/provider"
)

// Scanner scans one symbol's history for triggered alert conditions.
type Scanner struct {
	fetcher provider.HistoricalFetcher
	logger  *logger.Logger
}

// ScanResult is the outcome of one historical scan: the alerts in
// chronological order plus the series they were derived from.
type ScanResult struct {
	Alerts []types.Alert
	Series []types.MarketData
}

// NewScanner creates a scanner over the given historical fetcher.
func NewScanner(fetcher provider.HistoricalFetcher, log *logger.Logger) *Scanner {
	return &Scanner{
		fetcher: fetcher,
		logger:  log,
	}
}

// Scan fetches the symbol's history for the window and evaluates every
// enabled condition across the whole series. A failed or empty fetch is
// not an error: the scan logs it and returns an empty result.
func (s *Scanner) Scan(ctx context.Context, symbol string, interval types.Interval, start, end time.Time, cfg alertcfg.Config, onProgress provider.OnFetchProgress) (ScanResult, error) {
	data, err := s.fetcher.FetchHistorical(ctx, symbol, interval, start, end, onProgress)
	if err != nil {
		s.logger.Warn("historical fetch failed, returning empty scan",
			zap.String("symbol", symbol),
			zap.Error(err))

		return ScanResult{}, nil
	}

	if len(data) == 0 {
		s.logger.Info("no historical data in window",
			zap.String("symbol", symbol),
			zap.Time("start", start),
			zap.Time("end", end))

		return ScanResult{}, nil
	}

	alerts := Evaluate(data, symbol, cfg)

	s.logger.Info("historical scan complete",
		zap.String("symbol", symbol),
		zap.Int("bars", len(data)),
		zap.Int("alerts", len(alerts)))

	return ScanResult{Alerts: alerts, Series: data}, nil
}

// Evaluate runs every enabled condition over an already-fetched series
// and returns the deduplicated, chronologically sorted alerts. Pure; it
// performs no I/O and is safe to call concurrently on distinct inputs.
func Evaluate(data []types.MarketData, symbol string, cfg alertcfg.Config) []types.Alert {
	var triggers []trigger

	conditions := cfg.Conditions

	// Indicators are only computed for condition families with at least
	// one enabled member.
	if conditions.RSIOversold.Enabled || conditions.RSIOverbought.Enabled {
		triggers = append(triggers, rsiTriggers(data, cfg)...)
	}

	if conditions.BollingerBelow.Enabled || conditions.BollingerAbove.Enabled {
		triggers = append(triggers, bollingerTriggers(data, cfg)...)
	}

	if conditions.MACDBullishCross.Enabled || conditions.MACDBearishCross.Enabled {
		triggers = append(triggers, macdTriggers(data, cfg)...)
	}

	if conditions.GoldenCross.Enabled || conditions.DeathCross.Enabled {
		triggers = append(triggers, emaCrossTriggers(data, cfg)...)
	}

	if conditions.HiLoBuy.Enabled || conditions.HiLoSell.Enabled {
		triggers = append(triggers, hiloTriggers(data, cfg)...)
	}

	if conditions.MACrossUp.Enabled || conditions.MACrossDown.Enabled {
		triggers = append(triggers, maCrossTriggers(data, cfg)...)
	}

	return mergeTriggers(data, symbol, triggers)
}

// mergeTriggers converts raw triggers into alert records, sorts them
// chronologically and drops duplicates sharing (timestamp, description).
func mergeTriggers(data []types.MarketData, symbol string, triggers []trigger) []types.Alert {
	sort.SliceStable(triggers, func(i, j int) bool {
		if triggers[i].index != triggers[j].index {
			return triggers[i].index < triggers[j].index
		}

		return triggers[i].key < triggers[j].key
	})

	type dedupKey struct {
		at          time.Time
		description string
	}

	seen := make(map[dedupKey]struct{}, len(triggers))
	alerts := make([]types.Alert, 0, len(triggers))

	for _, t := range triggers {
		bar := data[t.index]

		k := dedupKey{at: bar.Time, description: t.description}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}

		alerts = append(alerts, types.Alert{
			Id:          uuid.NewString(),
			Time:        bar.Time,
			Symbol:      symbol,
			Condition:   t.key,
			Description: t.description,
			Price:       bar.Close,
			Outcomes:    make(map[string]types.HorizonOutcome),
		})
	}

	return alerts
}

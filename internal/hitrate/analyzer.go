// Package hitrate measures, for each historical alert, whether the
// subsequent price move agreed with the alert's implied direction at a
// set of time horizons.
package hitrate

import (
	"context"
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sigwatch/sigwatch/internal/logger"
	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/sigwatch/sigwatch/pkg/errors"
	"github.com/sigwatch/sigwatch/pkg/marketdata/provider"
)

// forwardPadding extends the forward fetch past the largest horizon so
// bars near the end of the span still resolve.
const forwardPadding = 48 * time.Hour

// DefaultHorizons returns the standard forward-looking horizons.
func DefaultHorizons() map[string]time.Duration {
	return map[string]time.Duration{
		"15m": 15 * time.Minute,
		"30m": 30 * time.Minute,
		"1h":  time.Hour,
		"4h":  4 * time.Hour,
		"24h": 24 * time.Hour,
	}
}

// Analyzer enriches alerts with hit/miss outcomes per horizon.
type Analyzer struct {
	fetcher    provider.HistoricalFetcher
	logger     *logger.Logger
	horizons   map[string]time.Duration
	directions DirectionTable
}

// NewAnalyzer creates an analyzer. The direction table is validated up
// front so a bad mapping fails loudly instead of skewing results.
func NewAnalyzer(fetcher provider.HistoricalFetcher, log *logger.Logger, horizons map[string]time.Duration, directions DirectionTable) (*Analyzer, error) {
	if len(horizons) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidHorizon, "at least one horizon is required")
	}

	for name, d := range horizons {
		if d <= 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidHorizon, "horizon %s is not positive", name)
		}
	}

	if err := directions.Validate(); err != nil {
		return nil, err
	}

	return &Analyzer{
		fetcher:    fetcher,
		logger:     log,
		horizons:   horizons,
		directions: directions,
	}, nil
}

// Analyze fetches one batch of 1-minute forward data covering every
// alert and every horizon, then scores each alert. A failed or empty
// forward fetch leaves every alert unscored rather than aborting.
func (a *Analyzer) Analyze(ctx context.Context, alerts []types.Alert) []types.Alert {
	if len(alerts) == 0 {
		return alerts
	}

	out := make([]types.Alert, len(alerts))
	copy(out, alerts)

	earliest, latest := alerts[0].Time, alerts[0].Time
	for _, alert := range alerts[1:] {
		if alert.Time.Before(earliest) {
			earliest = alert.Time
		}
		if alert.Time.After(latest) {
			latest = alert.Time
		}
	}

	var maxHorizon time.Duration
	for _, d := range a.horizons {
		if d > maxHorizon {
			maxHorizon = d
		}
	}

	end := latest.Add(maxHorizon).Add(forwardPadding)

	forward, err := a.fetcher.FetchHistorical(ctx, alerts[0].Symbol, types.Interval1m, earliest, end, nil)
	if err != nil || len(forward) == 0 {
		a.logger.Warn("forward data unavailable, leaving alerts unscored",
			zap.String("symbol", alerts[0].Symbol),
			zap.Int("alerts", len(alerts)),
			zap.Error(err))

		for i := range out {
			out[i].HitRateCalculated = false
		}

		return out
	}

	sort.Slice(forward, func(i, j int) bool { return forward[i].Time.Before(forward[j].Time) })

	for i := range out {
		a.score(&out[i], forward)
	}

	return out
}

// score fills one alert's outcome map from the sorted forward series.
func (a *Analyzer) score(alert *types.Alert, forward []types.MarketData) {
	direction, ok := a.directions.Direction(alert.Condition)
	if !ok {
		a.logger.Warn("no direction mapping for condition, skipping alert",
			zap.String("condition", string(alert.Condition)))

		alert.HitRateCalculated = false

		return
	}

	if alert.Price == 0 {
		alert.HitRateCalculated = false

		return
	}

	// A fresh map every time: the input slice is shallow-copied, so
	// writing into an existing map would reach back into the caller's
	// records.
	alert.Outcomes = make(map[string]types.HorizonOutcome, len(a.horizons))

	for name, horizon := range a.horizons {
		target := alert.Time.Add(horizon)

		// First forward bar at or after the horizon target.
		idx := sort.Search(len(forward), func(i int) bool {
			return !forward[i].Time.Before(target)
		})

		if idx == len(forward) {
			// Alert too close to the end of available data. Outcome
			// fields stay empty, never fabricated.
			alert.Outcomes[name] = types.HorizonOutcome{}

			continue
		}

		pct := (forward[idx].Close - alert.Price) / alert.Price * 100
		pct = roundPct(pct)

		hit := (direction == types.DirectionBuy && pct > 0) ||
			(direction == types.DirectionSell && pct < 0)

		alert.Outcomes[name] = types.HorizonOutcome{
			Hit:       optional.Some(hit),
			PctChange: optional.Some(pct),
		}
	}

	alert.HitRateCalculated = true
}

// roundPct rounds a percent change to two decimal places.
func roundPct(pct float64) float64 {
	rounded, _ := decimal.NewFromFloat(pct).Round(2).Float64()

	return rounded
}

package live

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sigwatch/sigwatch/internal/alertcfg"
	"github.com/sigwatch/sigwatch/internal/indicator"
	"github.com/sigwatch/sigwatch/internal/types"
)

// Evaluator applies an alert configuration to live snapshots. Fired
// conditions arm their cooldowns; buy-side conditions are additionally
// gated by the death-cross filter.
type Evaluator struct {
	config    alertcfg.Config
	cooldowns *CooldownStore
	filter    *CrossFilter
}

// NewEvaluator creates an evaluator over shared cooldown/filter state.
func NewEvaluator(config alertcfg.Config, cooldowns *CooldownStore, filter *CrossFilter) *Evaluator {
	return &Evaluator{
		config:    config,
		cooldowns: cooldowns,
		filter:    filter,
	}
}

// Evaluate emits the alerts the snapshot triggers under the configured
// conditions, cooldowns and filter state. The filter observes the
// snapshot's EMA cross before any condition is evaluated, so a death
// cross suppresses buy-side signals from the same snapshot onward.
func (e *Evaluator) Evaluate(snapshot types.Snapshot) []types.Alert {
	filterState := e.filter.Observe(snapshot.Symbol, snapshot.EMACross)

	var alerts []types.Alert

	fire := func(condition types.ConditionKey, description string) {
		if filterState.Suppresses(condition) {
			return
		}

		cooldown := time.Duration(e.config.CooldownMinutes) * time.Minute
		if !e.cooldowns.Armed(snapshot.Symbol, condition, snapshot.Time, cooldown) {
			return
		}

		e.cooldowns.Trigger(snapshot.Symbol, condition, snapshot.Time)

		alerts = append(alerts, types.Alert{
			Id:          uuid.NewString(),
			Time:        snapshot.Time,
			Symbol:      snapshot.Symbol,
			Condition:   condition,
			Description: description,
			Price:       snapshot.LastPrice,
			Outcomes:    make(map[string]types.HorizonOutcome),
		})
	}

	conditions := e.config.Conditions

	// An unwarmed window carries a NaN RSI; only a defined reading can
	// satisfy a threshold, including a saturated 0.
	if indicator.Defined(snapshot.RSI) {
		if conditions.RSIOversold.Enabled && snapshot.RSI <= conditions.RSIOversold.Value {
			fire(types.ConditionRSIOversold,
				fmt.Sprintf("RSI %.2f at or below %.2f (oversold)", snapshot.RSI, conditions.RSIOversold.Value))
		}

		if conditions.RSIOverbought.Enabled && snapshot.RSI >= conditions.RSIOverbought.Value {
			fire(types.ConditionRSIOverbought,
				fmt.Sprintf("RSI %.2f at or above %.2f (overbought)", snapshot.RSI, conditions.RSIOverbought.Value))
		}
	}

	if conditions.BollingerBelow.Enabled && snapshot.BollingerSignal == types.BollingerBelow {
		fire(types.ConditionBollingerBelow,
			fmt.Sprintf("Price %.4f below lower Bollinger band", snapshot.LastPrice))
	}

	if conditions.BollingerAbove.Enabled && snapshot.BollingerSignal == types.BollingerAbove {
		fire(types.ConditionBollingerAbove,
			fmt.Sprintf("Price %.4f above upper Bollinger band", snapshot.LastPrice))
	}

	if conditions.MACDBullishCross.Enabled && snapshot.MACDCross == types.CrossBullish {
		fire(types.ConditionMACDBullishCross,
			fmt.Sprintf("MACD bullish cross (macd %.4f, signal %.4f)", snapshot.MACDValue, snapshot.MACDSignal))
	}

	if conditions.MACDBearishCross.Enabled && snapshot.MACDCross == types.CrossBearish {
		fire(types.ConditionMACDBearishCross,
			fmt.Sprintf("MACD bearish cross (macd %.4f, signal %.4f)", snapshot.MACDValue, snapshot.MACDSignal))
	}

	if conditions.GoldenCross.Enabled && snapshot.EMACross == types.GoldenCross {
		fire(types.ConditionGoldenCross, "Golden cross: EMA(50) crossed above EMA(200)")
	}

	if conditions.DeathCross.Enabled && snapshot.EMACross == types.DeathCross {
		fire(types.ConditionDeathCross, "Death cross: EMA(50) crossed below EMA(200)")
	}

	if conditions.HiLoBuy.Enabled && snapshot.HiLo == types.HiLoBuy {
		fire(types.ConditionHiLoBuy, fmt.Sprintf("HiLo buy signal at %.4f", snapshot.LastPrice))
	}

	if conditions.HiLoSell.Enabled && snapshot.HiLo == types.HiLoSell {
		fire(types.ConditionHiLoSell, fmt.Sprintf("HiLo sell signal at %.4f", snapshot.LastPrice))
	}

	for period, state := range snapshot.MACross {
		switch {
		case state == types.MACrossUp && conditions.MACrossUp.Enabled:
			fire(types.MACrossUpKey(period), fmt.Sprintf("Price crossed above EMA(%d)", period))
		case state == types.MACrossDown && conditions.MACrossDown.Enabled:
			fire(types.MACrossDownKey(period), fmt.Sprintf("Price crossed below EMA(%d)", period))
		}
	}

	if conditions.PriceAbove.Enabled && snapshot.LastPrice > conditions.PriceAbove.Value {
		fire(types.ConditionPriceAbove,
			fmt.Sprintf("Price %.4f above %.4f", snapshot.LastPrice, conditions.PriceAbove.Value))
	}

	if conditions.PriceBelow.Enabled && snapshot.LastPrice < conditions.PriceBelow.Value {
		fire(types.ConditionPriceBelow,
			fmt.Sprintf("Price %.4f below %.4f", snapshot.LastPrice, conditions.PriceBelow.Value))
	}

	e.evaluateCapitalFlow(snapshot, fire)

	return alerts
}

// evaluateCapitalFlow checks the paired volume/market-cap and 24h
// change thresholds. Without a market cap neither side can fire.
func (e *Evaluator) evaluateCapitalFlow(snapshot types.Snapshot, fire func(types.ConditionKey, string)) {
	conditions := e.config.Conditions

	if !conditions.CapitalInflow.Enabled && !conditions.CapitalOutflow.Enabled {
		return
	}

	marketCap, err := snapshot.MarketCap.Take()
	if err != nil || marketCap <= 0 {
		return
	}

	volumePct := snapshot.QuoteVolume24h / marketCap * 100

	if conditions.CapitalInflow.Enabled &&
		volumePct >= conditions.CapitalInflow.MarketCapPct &&
		snapshot.PriceChangePct24h >= conditions.CapitalInflow.ChangePct {
		fire(types.ConditionCapitalInflow,
			fmt.Sprintf("Capital inflow: 24h volume %.2f%% of market cap, price up %.2f%%",
				volumePct, snapshot.PriceChangePct24h))
	}

	if conditions.CapitalOutflow.Enabled &&
		volumePct >= conditions.CapitalOutflow.MarketCapPct &&
		snapshot.PriceChangePct24h <= -conditions.CapitalOutflow.ChangePct {
		fire(types.ConditionCapitalOutflow,
			fmt.Sprintf("Capital outflow: 24h volume %.2f%% of market cap, price down %.2f%%",
				volumePct, snapshot.PriceChangePct24h))
	}
}

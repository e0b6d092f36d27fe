package scan

import (
	"fmt"

	"github.com/sigwatch/sigwatch/internal/alertcfg"
	"github.com/sigwatch/sigwatch/internal/indicator"
	"github.com/sigwatch/sigwatch/internal/types"
)

// trigger is one condition firing at one bar of the scanned series.
type trigger struct {
	index       int
	key         types.ConditionKey
	description string
}

// thresholdEntries emits a trigger at every bar where the series enters
// the zone defined by inZone. A bar whose predecessor is undefined
// counts as an entry when it is already inside the zone.
func thresholdEntries(values []float64, key types.ConditionKey, inZone func(float64) bool, describe func(float64) string) []trigger {
	var out []trigger

	for i, v := range values {
		if !indicator.Defined(v) || !inZone(v) {
			continue
		}

		if i > 0 && indicator.Defined(values[i-1]) && inZone(values[i-1]) {
			continue
		}

		out = append(out, trigger{index: i, key: key, description: describe(v)})
	}

	return out
}

// rsiTriggers derives the oversold/overbought entry events.
func rsiTriggers(data []types.MarketData, cfg alertcfg.Config) []trigger {
	rsi := indicator.RSISeries(data, cfg.Parameters.RSIPeriod)

	var out []trigger

	if cfg.Conditions.RSIOversold.Enabled {
		threshold := cfg.Conditions.RSIOversold.Value
		out = append(out, thresholdEntries(rsi, types.ConditionRSIOversold,
			func(v float64) bool { return v <= threshold },
			func(v float64) string {
				return fmt.Sprintf("RSI %.2f at or below %.2f (oversold)", v, threshold)
			})...)
	}

	if cfg.Conditions.RSIOverbought.Enabled {
		threshold := cfg.Conditions.RSIOverbought.Value
		out = append(out, thresholdEntries(rsi, types.ConditionRSIOverbought,
			func(v float64) bool { return v >= threshold },
			func(v float64) string {
				return fmt.Sprintf("RSI %.2f at or above %.2f (overbought)", v, threshold)
			})...)
	}

	return out
}

// bollingerTriggers derives the band-breach entry events.
func bollingerTriggers(data []types.MarketData, cfg alertcfg.Config) []trigger {
	bands := indicator.BollingerSeries(data, cfg.Parameters.BollingerPeriod, cfg.Parameters.BollingerStdDev)
	closes := types.Closes(data)

	var out []trigger

	entries := func(key types.ConditionKey, band []float64, breach func(c, b float64) bool, format string) {
		for i := range closes {
			if !indicator.Defined(band[i]) || !breach(closes[i], band[i]) {
				continue
			}

			if i > 0 && indicator.Defined(band[i-1]) && breach(closes[i-1], band[i-1]) {
				continue
			}

			out = append(out, trigger{
				index:       i,
				key:         key,
				description: fmt.Sprintf(format, closes[i], band[i]),
			})
		}
	}

	if cfg.Conditions.BollingerBelow.Enabled {
		entries(types.ConditionBollingerBelow, bands.Lower,
			func(c, b float64) bool { return c < b },
			"Price %.4f below lower Bollinger band %.4f")
	}

	if cfg.Conditions.BollingerAbove.Enabled {
		entries(types.ConditionBollingerAbove, bands.Upper,
			func(c, b float64) bool { return c > b },
			"Price %.4f above upper Bollinger band %.4f")
	}

	return out
}

// macdTriggers derives the MACD line/signal cross events.
func macdTriggers(data []types.MarketData, cfg alertcfg.Config) []trigger {
	result := indicator.MACDSeries(data, cfg.Parameters.MACDFast, cfg.Parameters.MACDSlow, cfg.Parameters.MACDSignal)

	var out []trigger

	for i, state := range result.Cross {
		switch {
		case state == types.CrossBullish && cfg.Conditions.MACDBullishCross.Enabled:
			out = append(out, trigger{
				index:       i,
				key:         types.ConditionMACDBullishCross,
				description: fmt.Sprintf("MACD bullish cross (macd %.4f, signal %.4f)", result.MACD[i], result.Signal[i]),
			})
		case state == types.CrossBearish && cfg.Conditions.MACDBearishCross.Enabled:
			out = append(out, trigger{
				index:       i,
				key:         types.ConditionMACDBearishCross,
				description: fmt.Sprintf("MACD bearish cross (macd %.4f, signal %.4f)", result.MACD[i], result.Signal[i]),
			})
		}
	}

	return out
}

// emaCrossTriggers derives the EMA(50)/EMA(200) golden and death cross events.
func emaCrossTriggers(data []types.MarketData, cfg alertcfg.Config) []trigger {
	states := indicator.GoldenDeathSeries(data)

	var out []trigger

	for i, state := range states {
		switch {
		case state == types.GoldenCross && cfg.Conditions.GoldenCross.Enabled:
			out = append(out, trigger{
				index:       i,
				key:         types.ConditionGoldenCross,
				description: "Golden cross: EMA(50) crossed above EMA(200)",
			})
		case state == types.DeathCross && cfg.Conditions.DeathCross.Enabled:
			out = append(out, trigger{
				index:       i,
				key:         types.ConditionDeathCross,
				description: "Death cross: EMA(50) crossed below EMA(200)",
			})
		}
	}

	return out
}

// hiloTriggers derives the HiLo channel breakout events.
func hiloTriggers(data []types.MarketData, cfg alertcfg.Config) []trigger {
	states := indicator.HiLoSeries(data, cfg.Parameters.HiLoLength, indicator.MATypeEMA, 0)

	var out []trigger

	for i, state := range states {
		switch {
		case state == types.HiLoBuy && cfg.Conditions.HiLoBuy.Enabled:
			out = append(out, trigger{
				index:       i,
				key:         types.ConditionHiLoBuy,
				description: fmt.Sprintf("HiLo buy signal at %.4f", data[i].Close),
			})
		case state == types.HiLoSell && cfg.Conditions.HiLoSell.Enabled:
			out = append(out, trigger{
				index:       i,
				key:         types.ConditionHiLoSell,
				description: fmt.Sprintf("HiLo sell signal at %.4f", data[i].Close),
			})
		}
	}

	return out
}

// maCrossTriggers derives price/EMA cross events for every historical
// scan period, each period under its own condition key.
func maCrossTriggers(data []types.MarketData, cfg alertcfg.Config) []trigger {
	var out []trigger

	for _, period := range indicator.HistoricalMACrossPeriods {
		states := indicator.MACrossSeries(data, period)

		for i, state := range states {
			switch {
			case state == types.MACrossUp && cfg.Conditions.MACrossUp.Enabled:
				out = append(out, trigger{
					index:       i,
					key:         types.MACrossUpKey(period),
					description: fmt.Sprintf("Price crossed above EMA(%d)", period),
				})
			case state == types.MACrossDown && cfg.Conditions.MACrossDown.Enabled:
				out = append(out, trigger{
					index:       i,
					key:         types.MACrossDownKey(period),
					description: fmt.Sprintf("Price crossed below EMA(%d)", period),
				})
			}
		}
	}

	return out
}

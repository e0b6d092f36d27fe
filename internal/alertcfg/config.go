// Package alertcfg defines the alert-condition configuration consumed by
// the historical scanner and the live evaluator. Each condition family is
// a closed typed variant: threshold conditions carry one numeric,
// crossover conditions carry none, capital-flow conditions carry a pair.
// Numeric values are checked at load time, not at evaluation time.
package alertcfg

import (
	"github.com/sigwatch/sigwatch/internal/types"
)

// ThresholdCondition is a toggle plus a single numeric threshold.
type ThresholdCondition struct {
	Enabled bool    `yaml:"enabled" json:"enabled" jsonschema:"title=Enabled"`
	Value   float64 `yaml:"value" json:"value" jsonschema:"title=Threshold Value"`
}

// CrossCondition is a bare toggle for crossover-style conditions.
type CrossCondition struct {
	Enabled bool `yaml:"enabled" json:"enabled" jsonschema:"title=Enabled"`
}

// FlowCondition gates on two thresholds at once: 24h quote volume as a
// percentage of market cap, and 24h price change percentage.
type FlowCondition struct {
	Enabled      bool    `yaml:"enabled" json:"enabled" jsonschema:"title=Enabled"`
	MarketCapPct float64 `yaml:"mcap_pct" json:"mcap_pct" jsonschema:"title=Volume / Market Cap %"`
	ChangePct    float64 `yaml:"change_pct" json:"change_pct" jsonschema:"title=24h Change %"`
}

// Conditions holds every supported condition keyed by its stable
// identifier. Unknown keys in the YAML are ignored so newer front ends
// can carry options an older engine does not know about.
type Conditions struct {
	RSIOversold      ThresholdCondition `yaml:"rsi_oversold" json:"rsi_oversold"`
	RSIOverbought    ThresholdCondition `yaml:"rsi_overbought" json:"rsi_overbought"`
	BollingerBelow   CrossCondition     `yaml:"bollinger_below" json:"bollinger_below"`
	BollingerAbove   CrossCondition     `yaml:"bollinger_above" json:"bollinger_above"`
	MACDBullishCross CrossCondition     `yaml:"macd_bullish_cross" json:"macd_bullish_cross"`
	MACDBearishCross CrossCondition     `yaml:"macd_bearish_cross" json:"macd_bearish_cross"`
	GoldenCross      CrossCondition     `yaml:"golden_cross" json:"golden_cross"`
	DeathCross       CrossCondition     `yaml:"death_cross" json:"death_cross"`
	HiLoBuy          CrossCondition     `yaml:"hilo_buy" json:"hilo_buy"`
	HiLoSell         CrossCondition     `yaml:"hilo_sell" json:"hilo_sell"`
	MACrossUp        CrossCondition     `yaml:"ma_cross_up" json:"ma_cross_up"`
	MACrossDown      CrossCondition     `yaml:"ma_cross_down" json:"ma_cross_down"`

	// Live-only conditions; the historical scanner never evaluates these.
	PriceAbove     ThresholdCondition `yaml:"price_above" json:"price_above"`
	PriceBelow     ThresholdCondition `yaml:"price_below" json:"price_below"`
	CapitalInflow  FlowCondition      `yaml:"capital_inflow" json:"capital_inflow"`
	CapitalOutflow FlowCondition      `yaml:"capital_outflow" json:"capital_outflow"`
}

// Parameters are the indicator periods shared by every condition that
// needs the indicator. Zero values are replaced with defaults at load.
type Parameters struct {
	RSIPeriod       int     `yaml:"rsi_period" json:"rsi_period" validate:"gte=0"`
	BollingerPeriod int     `yaml:"bollinger_period" json:"bollinger_period" validate:"gte=0"`
	BollingerStdDev float64 `yaml:"bollinger_std_dev" json:"bollinger_std_dev" validate:"gte=0"`
	MACDFast        int     `yaml:"macd_fast" json:"macd_fast" validate:"gte=0"`
	MACDSlow        int     `yaml:"macd_slow" json:"macd_slow" validate:"gte=0"`
	MACDSignal      int     `yaml:"macd_signal" json:"macd_signal" validate:"gte=0"`
	HiLoLength      int     `yaml:"hilo_length" json:"hilo_length" validate:"gte=0"`
	HMAPeriod       int     `yaml:"hma_period" json:"hma_period" validate:"gte=0"`
}

// Config is the full alert configuration for one deployment: the
// condition set, the shared indicator parameters, and the live cooldown.
type Config struct {
	Conditions      Conditions `yaml:"conditions" json:"conditions"`
	Parameters      Parameters `yaml:"parameters" json:"parameters"`
	CooldownMinutes int        `yaml:"cooldown_minutes" json:"cooldown_minutes" validate:"gte=0"`
}

// DefaultConfig returns the stock configuration: the standard indicator
// conditions enabled with conventional thresholds, live-only conditions
// off, and a one hour cooldown.
func DefaultConfig() Config {
	return Config{
		Conditions: Conditions{
			RSIOversold:      ThresholdCondition{Enabled: true, Value: 30},
			RSIOverbought:    ThresholdCondition{Enabled: true, Value: 75},
			BollingerBelow:   CrossCondition{Enabled: true},
			BollingerAbove:   CrossCondition{Enabled: true},
			MACDBullishCross: CrossCondition{Enabled: true},
			MACDBearishCross: CrossCondition{Enabled: true},
			GoldenCross:      CrossCondition{Enabled: true},
			DeathCross:       CrossCondition{Enabled: true},
			HiLoBuy:          CrossCondition{Enabled: true},
			HiLoSell:         CrossCondition{Enabled: true},
			MACrossUp:        CrossCondition{Enabled: true},
			MACrossDown:      CrossCondition{Enabled: true},
		},
		Parameters:      DefaultParameters(),
		CooldownMinutes: 60,
	}
}

// DefaultParameters returns the conventional indicator periods.
func DefaultParameters() Parameters {
	return Parameters{
		RSIPeriod:       14,
		BollingerPeriod: 20,
		BollingerStdDev: 2.0,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		HiLoLength:      34,
		HMAPeriod:       21,
	}
}

// applyDefaults fills zero-valued parameters with the defaults.
func (p *Parameters) applyDefaults() {
	defaults := DefaultParameters()
	if p.RSIPeriod == 0 {
		p.RSIPeriod = defaults.RSIPeriod
	}
	if p.BollingerPeriod == 0 {
		p.BollingerPeriod = defaults.BollingerPeriod
	}
	if p.BollingerStdDev == 0 {
		p.BollingerStdDev = defaults.BollingerStdDev
	}
	if p.MACDFast == 0 {
		p.MACDFast = defaults.MACDFast
	}
	if p.MACDSlow == 0 {
		p.MACDSlow = defaults.MACDSlow
	}
	if p.MACDSignal == 0 {
		p.MACDSignal = defaults.MACDSignal
	}
	if p.HiLoLength == 0 {
		p.HiLoLength = defaults.HiLoLength
	}
	if p.HMAPeriod == 0 {
		p.HMAPeriod = defaults.HMAPeriod
	}
}

// Enabled reports whether the condition behind the given key is on.
// Generic MA-cross keys (any period suffix) map to the family toggle.
// Unknown keys report false.
func (c *Conditions) Enabled(key types.ConditionKey) bool {
	switch key {
	case types.ConditionRSIOversold:
		return c.RSIOversold.Enabled
	case types.ConditionRSIOverbought:
		return c.RSIOverbought.Enabled
	case types.ConditionBollingerBelow:
		return c.BollingerBelow.Enabled
	case types.ConditionBollingerAbove:
		return c.BollingerAbove.Enabled
	case types.ConditionMACDBullishCross:
		return c.MACDBullishCross.Enabled
	case types.ConditionMACDBearishCross:
		return c.MACDBearishCross.Enabled
	case types.ConditionGoldenCross:
		return c.GoldenCross.Enabled
	case types.ConditionDeathCross:
		return c.DeathCross.Enabled
	case types.ConditionHiLoBuy:
		return c.HiLoBuy.Enabled
	case types.ConditionHiLoSell:
		return c.HiLoSell.Enabled
	case types.ConditionPriceAbove:
		return c.PriceAbove.Enabled
	case types.ConditionPriceBelow:
		return c.PriceBelow.Enabled
	case types.ConditionCapitalInflow:
		return c.CapitalInflow.Enabled
	case types.ConditionCapitalOutflow:
		return c.CapitalOutflow.Enabled
	}

	if types.IsMACrossUpKey(key) {
		return c.MACrossUp.Enabled
	}
	if types.IsMACrossDownKey(key) {
		return c.MACrossDown.Enabled
	}

	return false
}

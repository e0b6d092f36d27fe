package types

import (
	"fmt"
	"strings"
)

// CrossState is the per-bar crossover state of a two-line indicator such as MACD.
type CrossState string

const (
	CrossNone    CrossState = "none"
	CrossBullish CrossState = "bullish"
	CrossBearish CrossState = "bearish"
)

// HiLoState is the per-bar state of the HiLo channel indicator.
type HiLoState string

const (
	HiLoNone HiLoState = "none"
	HiLoBuy  HiLoState = "buy"
	HiLoSell HiLoState = "sell"
)

// MAState is the per-bar state of a price/moving-average crossover.
type MAState string

const (
	MANone      MAState = "none"
	MACrossUp   MAState = "up"
	MACrossDown MAState = "down"
)

// EMACrossState is the per-bar state of the EMA(50)/EMA(200) crossover.
type EMACrossState string

const (
	EMACrossNone EMACrossState = "none"
	GoldenCross  EMACrossState = "golden_cross"
	DeathCross   EMACrossState = "death_cross"
)

// Direction is the directional bias implied by an alert condition.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// ConditionKey identifies an alert condition. The vocabulary is a stable
// public contract; other layers persist and match on these strings.
type ConditionKey string

const (
	ConditionRSIOversold      ConditionKey = "rsi_oversold"
	ConditionRSIOverbought    ConditionKey = "rsi_overbought"
	ConditionBollingerBelow   ConditionKey = "bollinger_below"
	ConditionBollingerAbove   ConditionKey = "bollinger_above"
	ConditionMACDBullishCross ConditionKey = "macd_bullish_cross"
	ConditionMACDBearishCross ConditionKey = "macd_bearish_cross"
	ConditionGoldenCross      ConditionKey = "golden_cross"
	ConditionDeathCross       ConditionKey = "death_cross"
	ConditionHiLoBuy          ConditionKey = "hilo_buy"
	ConditionHiLoSell         ConditionKey = "hilo_sell"

	// Live-only conditions evaluated by the monitoring loop.
	ConditionPriceAbove     ConditionKey = "price_above"
	ConditionPriceBelow     ConditionKey = "price_below"
	ConditionCapitalInflow  ConditionKey = "capital_inflow"
	ConditionCapitalOutflow ConditionKey = "capital_outflow"
)

// Prefixes for the per-period moving-average-cross condition family.
const (
	ConditionPrefixMACrossUp   = "ma_cross_up_"
	ConditionPrefixMACrossDown = "ma_cross_down_"
)

// MACrossUpKey returns the condition key for an upward price/EMA cross at the given period.
func MACrossUpKey(period int) ConditionKey {
	return ConditionKey(fmt.Sprintf("%s%d", ConditionPrefixMACrossUp, period))
}

// MACrossDownKey returns the condition key for a downward price/EMA cross at the given period.
func MACrossDownKey(period int) ConditionKey {
	return ConditionKey(fmt.Sprintf("%s%d", ConditionPrefixMACrossDown, period))
}

// IsMACrossUpKey reports whether the key belongs to the upward MA-cross family.
func IsMACrossUpKey(key ConditionKey) bool {
	return strings.HasPrefix(string(key), ConditionPrefixMACrossUp)
}

// IsMACrossDownKey reports whether the key belongs to the downward MA-cross family.
func IsMACrossDownKey(key ConditionKey) bool {
	return strings.HasPrefix(string(key), ConditionPrefixMACrossDown)
}

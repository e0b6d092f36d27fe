package hitrate

import (
	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/sigwatch/sigwatch/pkg/errors"
)

// DirectionTable maps condition keys to their implied trade direction.
// It is configuration, not code: deployments can override the defaults,
// and the table is validated before any analysis runs. Per-period
// MA-cross keys resolve through their family prefix.
type DirectionTable map[types.ConditionKey]types.Direction

// DefaultDirections returns the stock condition-to-direction mapping.
func DefaultDirections() DirectionTable {
	return DirectionTable{
		types.ConditionRSIOversold:      types.DirectionBuy,
		types.ConditionRSIOverbought:    types.DirectionSell,
		types.ConditionBollingerBelow:   types.DirectionBuy,
		types.ConditionBollingerAbove:   types.DirectionSell,
		types.ConditionMACDBullishCross: types.DirectionBuy,
		types.ConditionMACDBearishCross: types.DirectionSell,
		types.ConditionGoldenCross:      types.DirectionBuy,
		types.ConditionDeathCross:       types.DirectionSell,
		types.ConditionHiLoBuy:          types.DirectionBuy,
		types.ConditionHiLoSell:         types.DirectionSell,

		// Family prefixes, matched when no exact key is present.
		types.ConditionKey(types.ConditionPrefixMACrossUp):   types.DirectionBuy,
		types.ConditionKey(types.ConditionPrefixMACrossDown): types.DirectionSell,
	}
}

// Direction resolves the trade direction for a condition key. Exact
// entries win over family prefixes. The boolean is false for keys the
// table does not cover.
func (t DirectionTable) Direction(key types.ConditionKey) (types.Direction, bool) {
	if d, ok := t[key]; ok {
		return d, true
	}

	if types.IsMACrossUpKey(key) {
		d, ok := t[types.ConditionKey(types.ConditionPrefixMACrossUp)]

		return d, ok
	}

	if types.IsMACrossDownKey(key) {
		d, ok := t[types.ConditionKey(types.ConditionPrefixMACrossDown)]

		return d, ok
	}

	return "", false
}

// Validate checks that every entry maps to a known direction.
func (t DirectionTable) Validate() error {
	for key, d := range t {
		if d != types.DirectionBuy && d != types.DirectionSell {
			return errors.Newf(errors.ErrCodeInvalidDirection, "condition %s maps to unknown direction %q", key, d)
		}
	}

	return nil
}

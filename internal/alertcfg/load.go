package alertcfg

import (
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sigwatch/sigwatch/pkg/errors"
)

// Parse decodes a YAML alert configuration. Structural problems (bad
// YAML, negative cooldown or periods) are errors; a bad numeric on an
// individual condition only disables that condition, the rest of the
// configuration stays usable. Disabled keys are returned so callers can
// log them.
func Parse(data []byte) (Config, []string, error) {
	config := Config{Parameters: DefaultParameters()}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeParseFailed, "failed to parse alert configuration", err)
	}

	config.Parameters.applyDefaults()

	validate := validator.New()
	if err := validate.Struct(&config); err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid alert configuration", err)
	}

	skipped := config.normalize()

	return config, skipped, nil
}

// Load reads and parses a YAML alert configuration file.
func Load(path string) (Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read alert configuration %s", path)
	}

	return Parse(data)
}

// normalize disables conditions whose numeric values cannot be
// evaluated and returns their keys.
func (c *Config) normalize() []string {
	var skipped []string

	disable := func(key string, enabled *bool, values ...float64) {
		if !*enabled {
			return
		}
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				*enabled = false
				skipped = append(skipped, key)
				return
			}
		}
	}

	disableOutsideRSIRange := func(key string, cond *ThresholdCondition) {
		if cond.Enabled && (cond.Value < 0 || cond.Value > 100) {
			cond.Enabled = false
			skipped = append(skipped, key)
		}
	}

	disable("rsi_oversold", &c.Conditions.RSIOversold.Enabled, c.Conditions.RSIOversold.Value)
	disable("rsi_overbought", &c.Conditions.RSIOverbought.Enabled, c.Conditions.RSIOverbought.Value)
	disableOutsideRSIRange("rsi_oversold", &c.Conditions.RSIOversold)
	disableOutsideRSIRange("rsi_overbought", &c.Conditions.RSIOverbought)

	disable("price_above", &c.Conditions.PriceAbove.Enabled, c.Conditions.PriceAbove.Value)
	disable("price_below", &c.Conditions.PriceBelow.Enabled, c.Conditions.PriceBelow.Value)
	disable("capital_inflow", &c.Conditions.CapitalInflow.Enabled,
		c.Conditions.CapitalInflow.MarketCapPct, c.Conditions.CapitalInflow.ChangePct)
	disable("capital_outflow", &c.Conditions.CapitalOutflow.Enabled,
		c.Conditions.CapitalOutflow.MarketCapPct, c.Conditions.CapitalOutflow.ChangePct)

	if c.Conditions.PriceAbove.Enabled && c.Conditions.PriceAbove.Value <= 0 {
		c.Conditions.PriceAbove.Enabled = false
		skipped = append(skipped, "price_above")
	}
	if c.Conditions.PriceBelow.Enabled && c.Conditions.PriceBelow.Value <= 0 {
		c.Conditions.PriceBelow.Enabled = false
		skipped = append(skipped, "price_below")
	}

	return skipped
}

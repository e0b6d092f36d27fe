package alertcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/sigwatch/sigwatch/pkg/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestParseFullDocument() {
	doc := `
conditions:
  rsi_oversold:
    enabled: true
    value: 25
  macd_bullish_cross:
    enabled: true
  capital_inflow:
    enabled: true
    mcap_pct: 10
    change_pct: 5
parameters:
  rsi_period: 9
cooldown_minutes: 30
`
	config, skipped, err := Parse([]byte(doc))
	suite.Require().NoError(err)
	suite.Empty(skipped)

	suite.True(config.Conditions.RSIOversold.Enabled)
	suite.Equal(25.0, config.Conditions.RSIOversold.Value)
	suite.True(config.Conditions.MACDBullishCross.Enabled)
	suite.Equal(10.0, config.Conditions.CapitalInflow.MarketCapPct)
	suite.Equal(30, config.CooldownMinutes)

	// Explicit rsi_period, defaults everywhere else.
	suite.Equal(9, config.Parameters.RSIPeriod)
	suite.Equal(20, config.Parameters.BollingerPeriod)
	suite.Equal(26, config.Parameters.MACDSlow)
}

func (suite *ConfigTestSuite) TestUnknownKeysIgnored() {
	doc := `
conditions:
  rsi_oversold:
    enabled: true
    value: 30
  some_future_condition:
    enabled: true
    value: 99
`
	config, skipped, err := Parse([]byte(doc))
	suite.Require().NoError(err)
	suite.Empty(skipped)
	suite.True(config.Conditions.RSIOversold.Enabled)
}

func (suite *ConfigTestSuite) TestInvalidThresholdSkipsOnlyThatCondition() {
	doc := `
conditions:
  rsi_oversold:
    enabled: true
    value: 130
  rsi_overbought:
    enabled: true
    value: 75
`
	config, skipped, err := Parse([]byte(doc))
	suite.Require().NoError(err)

	suite.Equal([]string{"rsi_oversold"}, skipped)
	suite.False(config.Conditions.RSIOversold.Enabled)
	suite.True(config.Conditions.RSIOverbought.Enabled)
}

func (suite *ConfigTestSuite) TestNonNumericThresholdIsParseError() {
	doc := `
conditions:
  rsi_oversold:
    enabled: true
    value: not-a-number
`
	_, _, err := Parse([]byte(doc))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeParseFailed))
}

func (suite *ConfigTestSuite) TestNegativeCooldownRejected() {
	_, _, err := Parse([]byte("cooldown_minutes: -5"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestLoadFromFile() {
	path := filepath.Join(suite.T().TempDir(), "alerts.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("cooldown_minutes: 15"), 0o644))

	config, _, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal(15, config.CooldownMinutes)
}

func (suite *ConfigTestSuite) TestLoadMissingFile() {
	_, _, err := Load(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestEnabledLookup() {
	config := DefaultConfig()
	config.Conditions.HiLoSell.Enabled = false

	suite.True(config.Conditions.Enabled(types.ConditionHiLoBuy))
	suite.False(config.Conditions.Enabled(types.ConditionHiLoSell))
	suite.True(config.Conditions.Enabled(types.MACrossUpKey(34)))
	suite.False(config.Conditions.Enabled(types.ConditionPriceAbove))
	suite.False(config.Conditions.Enabled(types.ConditionKey("nonsense")))
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	schemaJSON, err := GenerateSchemaJSON()
	suite.Require().NoError(err)
	suite.Contains(schemaJSON, "rsi_oversold")
	suite.Contains(schemaJSON, "cooldown_minutes")
}

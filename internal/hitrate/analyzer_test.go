package hitrate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sigwatch/sigwatch/internal/logger"
	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/sigwatch/sigwatch/pkg/errors"
	"github.com/sigwatch/sigwatch/pkg/marketdata/provider"
)

type stubFetcher struct {
	data []types.MarketData
	err  error

	calls int
}

func (f *stubFetcher) FetchHistorical(_ context.Context, _ string, _ types.Interval, _, _ time.Time, _ provider.OnFetchProgress) ([]types.MarketData, error) {
	f.calls++

	return f.data, f.err
}

type AnalyzerTestSuite struct {
	suite.Suite

	base time.Time
}

func TestAnalyzerSuite(t *testing.T) {
	suite.Run(t, new(AnalyzerTestSuite))
}

func (suite *AnalyzerTestSuite) SetupTest() {
	suite.base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

// minuteBars builds a 1-minute forward series starting at the suite
// base with the given closes.
func (suite *AnalyzerTestSuite) minuteBars(closes []float64) []types.MarketData {
	data := make([]types.MarketData, len(closes))
	for i, c := range closes {
		data[i] = types.MarketData{
			Symbol: "BTCUSDT",
			Time:   suite.base.Add(time.Duration(i) * time.Minute),
			Close:  c,
		}
	}

	return data
}

// flatThen returns n flat closes at price followed by the tail values.
func flatThen(price float64, n int, tail ...float64) []float64 {
	out := make([]float64, 0, n+len(tail))
	for i := 0; i < n; i++ {
		out = append(out, price)
	}

	return append(out, tail...)
}

func (suite *AnalyzerTestSuite) newAnalyzer(fetcher provider.HistoricalFetcher, horizons map[string]time.Duration) *Analyzer {
	analyzer, err := NewAnalyzer(fetcher, logger.NewNopLogger(), horizons, DefaultDirections())
	suite.Require().NoError(err)

	return analyzer
}

func (suite *AnalyzerTestSuite) alert(condition types.ConditionKey, price float64) types.Alert {
	return types.Alert{
		Id:        "a-1",
		Time:      suite.base,
		Symbol:    "BTCUSDT",
		Condition: condition,
		Price:     price,
	}
}

func (suite *AnalyzerTestSuite) TestBuyHitOnRisingPrice() {
	// 100 -> 103 fifteen minutes later.
	forward := suite.minuteBars(flatThen(100, 15, 103, 103, 103))
	fetcher := &stubFetcher{data: forward}

	analyzer := suite.newAnalyzer(fetcher, map[string]time.Duration{"15m": 15 * time.Minute})
	out := analyzer.Analyze(context.Background(), []types.Alert{suite.alert(types.ConditionRSIOversold, 100)})

	suite.Require().Len(out, 1)
	suite.True(out[0].HitRateCalculated)

	outcome := out[0].Outcomes["15m"]
	suite.True(outcome.Hit.Unwrap())
	suite.Equal(3.0, outcome.PctChange.Unwrap())
}

func (suite *AnalyzerTestSuite) TestSellMissOnRisingPrice() {
	forward := suite.minuteBars(flatThen(100, 15, 103))
	analyzer := suite.newAnalyzer(&stubFetcher{data: forward}, map[string]time.Duration{"15m": 15 * time.Minute})

	out := analyzer.Analyze(context.Background(), []types.Alert{suite.alert(types.ConditionRSIOverbought, 100)})

	outcome := out[0].Outcomes["15m"]
	suite.False(outcome.Hit.Unwrap())
	suite.Equal(3.0, outcome.PctChange.Unwrap())
}

func (suite *AnalyzerTestSuite) TestFlatPriceIsNeverAHit() {
	// A sell-bias alert on a flat tape: zero change fails pct<0.
	forward := suite.minuteBars(flatThen(100, 30))
	analyzer := suite.newAnalyzer(&stubFetcher{data: forward}, map[string]time.Duration{"15m": 15 * time.Minute})

	out := analyzer.Analyze(context.Background(), []types.Alert{suite.alert(types.ConditionRSIOverbought, 100)})

	outcome := out[0].Outcomes["15m"]
	suite.Require().True(out[0].HitRateCalculated)
	suite.False(outcome.Hit.Unwrap())
	suite.Equal(0.0, outcome.PctChange.Unwrap())
}

func (suite *AnalyzerTestSuite) TestMissingForwardDataLeavesOutcomeEmpty() {
	// Forward data ends before the 4h horizon resolves.
	forward := suite.minuteBars(flatThen(100, 30, 105))
	analyzer := suite.newAnalyzer(&stubFetcher{data: forward}, map[string]time.Duration{
		"15m": 15 * time.Minute,
		"4h":  4 * time.Hour,
	})

	out := analyzer.Analyze(context.Background(), []types.Alert{suite.alert(types.ConditionRSIOversold, 100)})

	suite.True(out[0].HitRateCalculated)
	suite.True(out[0].Outcomes["15m"].Hit.IsSome())

	unresolved := out[0].Outcomes["4h"]
	suite.True(unresolved.Hit.IsNone())
	suite.True(unresolved.PctChange.IsNone())
}

func (suite *AnalyzerTestSuite) TestFetchFailureLeavesAlertsUnscored() {
	fetcher := &stubFetcher{err: errors.New(errors.ErrCodeFetchFailed, "upstream down")}
	analyzer := suite.newAnalyzer(fetcher, DefaultHorizons())

	out := analyzer.Analyze(context.Background(), []types.Alert{suite.alert(types.ConditionRSIOversold, 100)})

	suite.Require().Len(out, 1)
	suite.False(out[0].HitRateCalculated)
	suite.Empty(out[0].Outcomes)
}

func (suite *AnalyzerTestSuite) TestSingleBatchedFetch() {
	forward := suite.minuteBars(flatThen(100, 600, 101))
	fetcher := &stubFetcher{data: forward}
	analyzer := suite.newAnalyzer(fetcher, DefaultHorizons())

	alerts := []types.Alert{
		suite.alert(types.ConditionRSIOversold, 100),
		{Id: "a-2", Time: suite.base.Add(30 * time.Minute), Symbol: "BTCUSDT", Condition: types.ConditionHiLoSell, Price: 100},
		{Id: "a-3", Time: suite.base.Add(2 * time.Hour), Symbol: "BTCUSDT", Condition: types.ConditionGoldenCross, Price: 100},
	}

	analyzer.Analyze(context.Background(), alerts)

	suite.Equal(1, fetcher.calls, "one forward fetch regardless of alert and horizon count")
}

func (suite *AnalyzerTestSuite) TestUnknownConditionSkipped() {
	forward := suite.minuteBars(flatThen(100, 30))
	analyzer := suite.newAnalyzer(&stubFetcher{data: forward}, map[string]time.Duration{"15m": 15 * time.Minute})

	out := analyzer.Analyze(context.Background(), []types.Alert{suite.alert(types.ConditionKey("unmapped_condition"), 100)})

	suite.False(out[0].HitRateCalculated)
}

func (suite *AnalyzerTestSuite) TestMACrossFamilyDirection() {
	forward := suite.minuteBars(flatThen(100, 15, 98))
	analyzer := suite.newAnalyzer(&stubFetcher{data: forward}, map[string]time.Duration{"15m": 15 * time.Minute})

	// Downward cross implies sell; a falling price is a hit.
	out := analyzer.Analyze(context.Background(), []types.Alert{suite.alert(types.MACrossDownKey(72), 100)})

	suite.True(out[0].HitRateCalculated)
	suite.True(out[0].Outcomes["15m"].Hit.Unwrap())
}

func (suite *AnalyzerTestSuite) TestInputAlertsNotMutated() {
	forward := suite.minuteBars(flatThen(100, 30, 105))
	analyzer := suite.newAnalyzer(&stubFetcher{data: forward}, map[string]time.Duration{"15m": 15 * time.Minute})

	input := []types.Alert{suite.alert(types.ConditionRSIOversold, 100)}
	analyzer.Analyze(context.Background(), input)

	suite.False(input[0].HitRateCalculated)
}

func (suite *AnalyzerTestSuite) TestInputOutcomeMapNotMutated() {
	forward := suite.minuteBars(flatThen(100, 30, 105))
	analyzer := suite.newAnalyzer(&stubFetcher{data: forward}, map[string]time.Duration{"15m": 15 * time.Minute})

	// Scanner output carries an allocated (empty) outcome map.
	record := suite.alert(types.ConditionRSIOversold, 100)
	record.Outcomes = map[string]types.HorizonOutcome{}
	input := []types.Alert{record}

	scored := analyzer.Analyze(context.Background(), input)

	suite.Empty(input[0].Outcomes)
	suite.False(input[0].HitRateCalculated)

	suite.Require().Len(scored, 1)
	outcome, ok := scored[0].Outcomes["15m"]
	suite.Require().True(ok)
	suite.True(outcome.Hit.Unwrap())
}

func (suite *AnalyzerTestSuite) TestConstructorValidation() {
	_, err := NewAnalyzer(&stubFetcher{}, logger.NewNopLogger(), nil, DefaultDirections())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidHorizon))

	_, err = NewAnalyzer(&stubFetcher{}, logger.NewNopLogger(),
		map[string]time.Duration{"15m": -time.Minute}, DefaultDirections())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidHorizon))

	bad := DirectionTable{types.ConditionRSIOversold: types.Direction("sideways")}
	_, err = NewAnalyzer(&stubFetcher{}, logger.NewNopLogger(), DefaultHorizons(), bad)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDirection))
}

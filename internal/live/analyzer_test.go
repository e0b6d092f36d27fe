package live

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/sigwatch/sigwatch/internal/alertcfg"
	"github.com/sigwatch/sigwatch/internal/types"
)

type LiveAnalyzerTestSuite struct {
	suite.Suite

	analyzer *Analyzer
}

func TestLiveAnalyzerSuite(t *testing.T) {
	suite.Run(t, new(LiveAnalyzerTestSuite))
}

func (suite *LiveAnalyzerTestSuite) SetupTest() {
	suite.analyzer = NewAnalyzer(alertcfg.DefaultParameters())
}

// window builds an hourly OHLCV window from closes.
func window(closes []float64) []types.MarketData {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	data := make([]types.MarketData, len(closes))

	for i, c := range closes {
		data[i] = types.MarketData{
			Symbol: "BTCUSDT",
			Time:   base.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: 100,
		}
	}

	return data
}

// flatCloses returns n bars at the given price.
func flatCloses(price float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}

	return out
}

func stats() types.TickerStats {
	return types.TickerStats{
		Symbol:            "BTCUSDT",
		LastPrice:         100,
		PriceChangePct24h: 2.5,
		QuoteVolume24h:    5_000_000,
	}
}

func (suite *LiveAnalyzerTestSuite) TestEmptyWindowYieldsZeroSnapshot() {
	snapshot := suite.analyzer.Analyze(nil, stats(), optional.None[float64](), "Bitcoin")

	suite.Equal("BTCUSDT", snapshot.Symbol)
	suite.Equal("Bitcoin", snapshot.Name)
	suite.Equal(100.0, snapshot.LastPrice)
	suite.True(math.IsNaN(snapshot.RSI))
	suite.Equal(types.BollingerNone, snapshot.BollingerSignal)
	suite.Equal(types.CrossNone, snapshot.MACDCross)
	suite.Equal(types.EMACrossNone, snapshot.EMACross)
	suite.Equal(types.HiLoNone, snapshot.HiLo)
	suite.Empty(snapshot.MACross)
	suite.Zero(snapshot.VWAP)
	suite.True(snapshot.MarketCap.IsNone())
}

func (suite *LiveAnalyzerTestSuite) TestShortWindowDegradesGracefully() {
	snapshot := suite.analyzer.Analyze(window(flatCloses(100, 5)), stats(), optional.None[float64](), "Bitcoin")

	suite.True(math.IsNaN(snapshot.RSI))
	suite.Zero(snapshot.EMA200)
	suite.Zero(snapshot.HMA)
	// VWAP only needs accumulated volume.
	suite.InDelta(100, snapshot.VWAP, 1e-9)
}

func (suite *LiveAnalyzerTestSuite) TestSnapshotCarriesTickerAndMarketCap() {
	snapshot := suite.analyzer.Analyze(window(flatCloses(100, 250)), stats(), optional.Some(1e12), "Bitcoin")

	suite.Equal(2.5, snapshot.PriceChangePct24h)
	suite.Equal(5_000_000.0, snapshot.QuoteVolume24h)
	suite.Equal(1e12, snapshot.MarketCap.Unwrap())
}

func (suite *LiveAnalyzerTestSuite) TestSnapshotTimeIsLastBarTime() {
	data := window(flatCloses(100, 250))
	snapshot := suite.analyzer.Analyze(data, stats(), optional.None[float64](), "Bitcoin")

	suite.True(snapshot.Time.Equal(data[len(data)-1].Time))
}

func (suite *LiveAnalyzerTestSuite) TestFlatWindowIndicatorLevels() {
	snapshot := suite.analyzer.Analyze(window(flatCloses(100, 250)), stats(), optional.None[float64](), "Bitcoin")

	// Constant tape: every moving average collapses onto the price.
	suite.InDelta(100, snapshot.EMA200, 1e-6)
	suite.InDelta(100, snapshot.HMA, 1e-6)
	suite.InDelta(100, snapshot.VWAP, 1e-6)
	// A warmed flat tape has no gains, so RSI saturates at the floor.
	suite.Zero(snapshot.RSI)
	suite.False(math.IsNaN(snapshot.RSI))
	suite.Equal(types.BollingerNone, snapshot.BollingerSignal)
	suite.Equal(types.CrossNone, snapshot.MACDCross)
	suite.Empty(snapshot.MACross)
	suite.False(snapshot.PriceAboveHMA)
	suite.False(snapshot.PriceAboveVWAP)
}

func (suite *LiveAnalyzerTestSuite) TestPriceAboveFlagsOnRisingTail() {
	// Flat history with a strong last-bar rally leaves the close above
	// VWAP and HMA.
	closes := append(flatCloses(100, 250), 120)
	snapshot := suite.analyzer.Analyze(window(closes), stats(), optional.None[float64](), "Bitcoin")

	suite.True(snapshot.PriceAboveVWAP)
	suite.True(snapshot.PriceAboveHMA)
	suite.Greater(snapshot.RSI, 99.0)
}

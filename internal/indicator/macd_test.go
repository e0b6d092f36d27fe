package indicator

import (
	"math"
	"testing"

	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) TestConstantSeriesNoCross() {
	data := barsFromCloses(rampCloses([2]float64{100, 120}))
	result := MACDSeries(data, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)

	for _, state := range result.Cross {
		suite.Equal(types.CrossNone, state)
	}
}

func (suite *MACDTestSuite) TestSingleBullishAndBearishCross() {
	// Flat, then a straight decline, then a recovery, then a final
	// decline: the macd/signal difference changes sign exactly once at
	// the trough (bullish) and once after the peak (bearish).
	closes := rampCloses(
		[2]float64{100, 100},
		[2]float64{60, 100},
		[2]float64{140, 100},
		[2]float64{80, 100},
	)
	data := barsFromCloses(closes)
	result := MACDSeries(data, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)

	var bullish, bearish int

	var bullishIdx, bearishIdx int

	for i, state := range result.Cross {
		switch state {
		case types.CrossBullish:
			bullish++
			bullishIdx = i
		case types.CrossBearish:
			bearish++
			bearishIdx = i
		}
	}

	suite.Equal(1, bullish)
	suite.Equal(1, bearish)

	// The bullish cross belongs to the recovery segment, the bearish one
	// to the final decline, in that order.
	suite.Greater(bullishIdx, 100)
	suite.Less(bullishIdx, 300)
	suite.Greater(bearishIdx, 300)
	suite.Less(bullishIdx, bearishIdx)
}

func (suite *MACDTestSuite) TestCrossesMatchReportedDifference() {
	data := barsFromCloses(walkCloses(400, 21))
	result := MACDSeries(data, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)

	for i := 1; i < len(data); i++ {
		if !Defined(result.Histogram[i-1]) || !Defined(result.Histogram[i]) {
			continue
		}

		switch result.Cross[i] {
		case types.CrossBullish:
			suite.Negative(result.Histogram[i-1])
			suite.Positive(result.Histogram[i])
		case types.CrossBearish:
			suite.Positive(result.Histogram[i-1])
			suite.Negative(result.Histogram[i])
		}
	}
}

func (suite *MACDTestSuite) TestWarmUpRegionUndefined() {
	data := barsFromCloses(walkCloses(60, 13))
	result := MACDSeries(data, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)

	for i := 0; i < DefaultMACDSlow-1; i++ {
		suite.True(math.IsNaN(result.MACD[i]))
	}

	for i := 0; i < DefaultMACDSlow+DefaultMACDSignal-2; i++ {
		suite.True(math.IsNaN(result.Signal[i]))
		suite.Equal(types.CrossNone, result.Cross[i])
	}

	suite.False(math.IsNaN(result.MACD[DefaultMACDSlow-1]))
	suite.False(math.IsNaN(result.Signal[DefaultMACDSlow+DefaultMACDSignal-2]))
}

func (suite *MACDTestSuite) TestInsufficientData() {
	data := barsFromCloses(walkCloses(20, 1))
	result := MACDSeries(data, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)

	suite.True(allNaN(result.MACD))
	suite.True(allNaN(result.Signal))

	for _, state := range result.Cross {
		suite.Equal(types.CrossNone, state)
	}
}

func (suite *MACDTestSuite) TestLatestMatchesSeriesTail() {
	data := barsFromCloses(walkCloses(200, 17))
	result := MACDSeries(data, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	state, macd, signal, hist := MACDLatest(data, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)

	last := len(data) - 1
	suite.Equal(result.Cross[last], state)
	suite.InDelta(result.MACD[last], macd, 1e-9)
	suite.InDelta(result.Signal[last], signal, 1e-9)
	suite.InDelta(result.Histogram[last], hist, 1e-9)
}

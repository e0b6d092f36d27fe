package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sigwatch/sigwatch/internal/types"
)

type StreamTestSuite struct {
	suite.Suite
}

func TestStreamSuite(t *testing.T) {
	suite.Run(t, new(StreamTestSuite))
}

func (suite *StreamTestSuite) TestParseCombinedKlineMessage() {
	payload := []byte(`{
		"stream": "btcusdt@kline_1h",
		"data": {
			"e": "kline",
			"E": 1717243260000,
			"s": "BTCUSDT",
			"k": {
				"t": 1717240000000,
				"T": 1717243599999,
				"s": "BTCUSDT",
				"i": "1h",
				"o": "100.50",
				"c": "101.25",
				"h": "102.00",
				"l": "99.75",
				"v": "1234.5",
				"x": true
			}
		}
	}`)

	event, err := ParseCombinedKlineMessage(payload)
	suite.Require().NoError(err)

	suite.Equal("BTCUSDT", event.Symbol)
	suite.Equal(types.Interval1h, event.Interval)
	suite.True(event.Final)
	suite.True(event.Bar.Time.Equal(time.UnixMilli(1717240000000)))
	suite.Equal(100.50, event.Bar.Open)
	suite.Equal(101.25, event.Bar.Close)
	suite.Equal(102.00, event.Bar.High)
	suite.Equal(99.75, event.Bar.Low)
	suite.Equal(1234.5, event.Bar.Volume)
}

func (suite *StreamTestSuite) TestParseRejectsNonKlineEvents() {
	_, err := ParseCombinedKlineMessage([]byte(`{"stream":"btcusdt@trade","data":{"e":"trade"}}`))
	suite.Error(err)
}

func (suite *StreamTestSuite) TestParseRejectsMalformedJSON() {
	_, err := ParseCombinedKlineMessage([]byte(`{not json`))
	suite.Error(err)
}

func (suite *StreamTestSuite) TestCombinedStreamURL() {
	url := combinedStreamURL("wss://example.test/stream", []string{"BTCUSDT", "ETHUSDT"}, types.Interval1h)
	suite.Equal("wss://example.test/stream?streams=btcusdt@kline_1h/ethusdt@kline_1h", url)
}

func (suite *StreamTestSuite) kline(symbol string, openTime time.Time, close float64, final bool) KlineEvent {
	return KlineEvent{
		Symbol: symbol,
		Final:  final,
		Bar: types.MarketData{
			Symbol: symbol,
			Time:   openTime,
			Close:  close,
		},
	}
}

func (suite *StreamTestSuite) TestWindowSetAppendsAndEvicts() {
	windows := NewWindowSet(3)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		windows.Apply(suite.kline("BTCUSDT", base.Add(time.Duration(i)*time.Hour), float64(100+i), true))
	}

	window := windows.Window("BTCUSDT")
	suite.Require().Len(window, 3)
	suite.Equal(102.0, window[0].Close)
	suite.Equal(104.0, window[2].Close)
}

func (suite *StreamTestSuite) TestWindowSetUpdatesOpenBarInPlace() {
	windows := NewWindowSet(10)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	windows.Apply(suite.kline("BTCUSDT", base, 100, false))
	windows.Apply(suite.kline("BTCUSDT", base, 101, false))
	windows.Apply(suite.kline("BTCUSDT", base, 102, true))

	window := windows.Window("BTCUSDT")
	suite.Require().Len(window, 1)
	suite.Equal(102.0, window[0].Close)
}

func (suite *StreamTestSuite) TestWindowSetSeed() {
	windows := NewWindowSet(2)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	seed := []types.MarketData{
		{Symbol: "BTCUSDT", Time: base, Close: 100},
		{Symbol: "BTCUSDT", Time: base.Add(time.Hour), Close: 101},
		{Symbol: "BTCUSDT", Time: base.Add(2 * time.Hour), Close: 102},
	}
	windows.Seed("BTCUSDT", seed)

	window := windows.Window("BTCUSDT")
	suite.Require().Len(window, 2)
	suite.Equal(101.0, window[0].Close)

	// Seeding copies; mutating the source leaves the window alone.
	seed[2].Close = 999
	suite.Equal(102.0, windows.Window("BTCUSDT")[1].Close)
}

func (suite *StreamTestSuite) TestWindowSetIsolatesSymbols() {
	windows := NewWindowSet(5)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	windows.Apply(suite.kline("BTCUSDT", base, 100, true))
	windows.Apply(suite.kline("ETHUSDT", base, 2500, true))

	suite.Len(windows.Window("BTCUSDT"), 1)
	suite.Len(windows.Window("ETHUSDT"), 1)
	suite.Empty(windows.Window("DOGEUSDT"))
}

// Package stream maintains live OHLCV windows from the Binance combined
// kline websocket. The monitoring loop consumes closed bars; open bars
// update the window's tail in place.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sigwatch/sigwatch/internal/logger"
	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/sigwatch/sigwatch/pkg/errors"
)

const (
	defaultEndpoint  = "wss://stream.binance.com:9443/stream"
	handshakeTimeout = 10 * time.Second
	pingPeriod       = 15 * time.Second
	writeTimeout     = 5 * time.Second
	eventBuffer      = 1024
)

// KlineEvent is one kline update from the combined stream.
type KlineEvent struct {
	Symbol   string
	Interval types.Interval
	Bar      types.MarketData
	// Final is true when the bar has closed and will not change again.
	Final bool
}

// Client consumes a Binance combined kline stream for a set of symbols.
type Client struct {
	endpoint string
	logger   *logger.Logger

	conn   *websocket.Conn
	events chan KlineEvent

	cancel context.CancelFunc
	once   sync.Once
	wg     sync.WaitGroup
}

// NewClient dials the combined stream for the given symbols and
// interval and starts reading. Events arrive on Events() until the
// context is cancelled or the connection drops.
func NewClient(ctx context.Context, symbols []string, interval types.Interval, log *logger.Logger) (*Client, error) {
	return newClient(ctx, defaultEndpoint, symbols, interval, log)
}

// NewClientWithEndpoint dials a custom endpoint, for tests.
func NewClientWithEndpoint(ctx context.Context, endpoint string, symbols []string, interval types.Interval, log *logger.Logger) (*Client, error) {
	return newClient(ctx, endpoint, symbols, interval, log)
}

func newClient(ctx context.Context, endpoint string, symbols []string, interval types.Interval, log *logger.Logger) (*Client, error) {
	if len(symbols) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "at least one symbol is required")
	}

	ctx, cancel := context.WithCancel(ctx)

	client := &Client{
		endpoint: endpoint,
		logger:   log,
		events:   make(chan KlineEvent, eventBuffer),
		cancel:   cancel,
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, combinedStreamURL(endpoint, symbols, interval), nil)
	if err != nil {
		cancel()

		return nil, errors.Wrap(errors.ErrCodeStreamConnectFailed, "failed to dial kline stream", err)
	}

	client.conn = conn

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * pingPeriod))
	})

	client.wg.Add(2)

	go func() {
		defer client.wg.Done()
		client.readLoop(ctx)
	}()

	go func() {
		defer client.wg.Done()
		client.pingLoop(ctx)
	}()

	log.Info("kline stream connected",
		zap.Int("symbols", len(symbols)),
		zap.String("interval", string(interval)))

	return client, nil
}

// Events returns the kline event channel. It is closed when the read
// loop exits.
func (c *Client) Events() <-chan KlineEvent {
	return c.events
}

// Close shuts the stream down. Safe to call more than once.
func (c *Client) Close() {
	c.once.Do(func() {
		c.cancel()

		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeTimeout))
		_ = c.conn.Close()

		c.wg.Wait()
	})
}

func (c *Client) readLoop(ctx context.Context) {
	defer close(c.events)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("kline stream read failed", zap.Error(err))
			}

			return
		}

		event, err := ParseCombinedKlineMessage(data)
		if err != nil {
			c.logger.Warn("dropping unparseable stream message", zap.Error(err))

			continue
		}

		select {
		case c.events <- event:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(writeTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.logger.Warn("kline stream ping failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// combinedStreamURL builds the combined-stream URL, one kline stream
// per symbol.
func combinedStreamURL(endpoint string, symbols []string, interval types.Interval) string {
	streams := make([]string, 0, len(symbols))
	for _, s := range symbols {
		streams = append(streams, fmt.Sprintf("%s@kline_%s", strings.ToLower(s), interval))
	}

	return endpoint + "?streams=" + strings.Join(streams, "/")
}

// combinedMessage mirrors the combined-stream envelope.
type combinedMessage struct {
	Stream string `json:"stream"`
	Data   struct {
		EventType string `json:"e"`
		Symbol    string `json:"s"`
		Kline     struct {
			OpenTime int64  `json:"t"`
			Interval string `json:"i"`
			Open     string `json:"o"`
			High     string `json:"h"`
			Low      string `json:"l"`
			Close    string `json:"c"`
			Volume   string `json:"v"`
			Final    bool   `json:"x"`
		} `json:"k"`
	} `json:"data"`
}

// ParseCombinedKlineMessage decodes one combined-stream kline payload.
func ParseCombinedKlineMessage(data []byte) (KlineEvent, error) {
	var msg combinedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return KlineEvent{}, errors.Wrap(errors.ErrCodeParseFailed, "failed to decode stream message", err)
	}

	if msg.Data.EventType != "kline" {
		return KlineEvent{}, errors.Newf(errors.ErrCodeParseFailed, "unexpected stream event type %q", msg.Data.EventType)
	}

	k := msg.Data.Kline

	open, _ := strconv.ParseFloat(k.Open, 64)
	high, _ := strconv.ParseFloat(k.High, 64)
	low, _ := strconv.ParseFloat(k.Low, 64)
	closePrice, _ := strconv.ParseFloat(k.Close, 64)
	volume, _ := strconv.ParseFloat(k.Volume, 64)

	return KlineEvent{
		Symbol:   msg.Data.Symbol,
		Interval: types.Interval(k.Interval),
		Final:    k.Final,
		Bar: types.MarketData{
			Symbol: msg.Data.Symbol,
			Time:   time.UnixMilli(k.OpenTime),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		},
	}, nil
}

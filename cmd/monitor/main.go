package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moznion/go-optional"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/sigwatch/sigwatch/internal/alertcfg"
	"github.com/sigwatch/sigwatch/internal/live"
	"github.com/sigwatch/sigwatch/internal/logger"
	"github.com/sigwatch/sigwatch/internal/sink"
	"github.com/sigwatch/sigwatch/internal/store"
	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/sigwatch/sigwatch/internal/version"
	"github.com/sigwatch/sigwatch/pkg/marketdata/provider"
	"github.com/sigwatch/sigwatch/pkg/marketdata/stream"
)

// monitor holds the wiring of the live monitoring loop.
type monitor struct {
	logger    *logger.Logger
	symbols   []string
	fetcher   *provider.BinanceFetcher
	coingecko *provider.CoinGeckoClient
	windows   *stream.WindowSet
	analyzer  *live.Analyzer
	evaluator *live.Evaluator
	alerts    sink.AlertSink
}

// cycle runs one monitoring pass: ticker snapshot, market caps, then
// per-symbol analyze and evaluate.
func (m *monitor) cycle(ctx context.Context) {
	tickers, err := m.fetcher.FetchTickers(ctx)
	if err != nil {
		m.logger.Warn("ticker fetch failed, skipping cycle", zap.Error(err))

		return
	}

	tickersBySymbol := make(map[string]types.TickerStats, len(tickers))
	for _, t := range tickers {
		tickersBySymbol[t.Symbol] = t
	}

	var capIndex provider.MarketCapIndex

	markets, err := m.coingecko.FetchMarkets(ctx, 2)
	if err != nil {
		// Capital-flow conditions degrade; everything else still runs.
		m.logger.Warn("market cap fetch failed", zap.Error(err))
	} else {
		capIndex = provider.BuildMarketCapIndex(markets)
	}

	for _, symbol := range m.symbols {
		stats, ok := tickersBySymbol[symbol]
		if !ok {
			m.logger.Warn("symbol missing from ticker snapshot", zap.String("symbol", symbol))

			continue
		}

		marketCap := optional.None[float64]()
		name := symbol

		if market, ok := capIndex.Lookup(symbol); ok {
			marketCap = optional.Some(market.MarketCap)
			name = market.Name
		}

		snapshot := m.analyzer.Analyze(m.windows.Window(symbol), stats, marketCap, name)

		alerts := m.evaluator.Evaluate(snapshot)
		if len(alerts) == 0 {
			continue
		}

		if err := m.alerts.Deliver(ctx, alerts); err != nil {
			m.logger.Warn("alert delivery failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
}

// seedWindows preloads every symbol's window from historical data so
// long-lookback indicators work from the first cycle.
func (m *monitor) seedWindows(ctx context.Context, interval types.Interval, capacity int) {
	end := time.Now()
	start := end.Add(-time.Duration(capacity+10) * interval.Duration())

	for _, symbol := range m.symbols {
		data, err := m.fetcher.FetchHistorical(ctx, symbol, interval, start, end, nil)
		if err != nil {
			m.logger.Warn("failed to seed window", zap.String("symbol", symbol), zap.Error(err))

			continue
		}

		m.windows.Seed(symbol, data)
		m.logger.Info("window seeded", zap.String("symbol", symbol), zap.Int("bars", len(data)))
	}
}

func monitorAction(ctx context.Context, cmd *cli.Command) error {
	symbols := cmd.StringSlice("symbol")
	interval := types.Interval(cmd.String("interval"))
	configPath := cmd.String("config")
	dbPath := cmd.String("db")
	schedule := cmd.String("schedule")
	capacity := cmd.Int("window")

	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	version.NewChecker().CheckForUpdate(ctx, log)

	config := alertcfg.DefaultConfig()

	if configPath != "" {
		loaded, skipped, err := alertcfg.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load alert configuration: %w", err)
		}

		for _, key := range skipped {
			log.Warn("skipping condition with invalid value", zap.String("condition", key))
		}

		config = loaded
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks := []sink.AlertSink{sink.NewLogSink(log)}

	if dbPath != "" {
		alertStore, err := store.NewAlertStore(dbPath, log)
		if err != nil {
			return fmt.Errorf("failed to open alert store: %w", err)
		}
		defer func() { _ = alertStore.Close() }()

		sinks = append(sinks, sink.NewStoreSink(alertStore))
	}

	m := &monitor{
		logger:    log,
		symbols:   symbols,
		fetcher:   provider.NewBinanceFetcher(),
		coingecko: provider.NewCoinGeckoClient(),
		windows:   stream.NewWindowSet(int(capacity)),
		analyzer:  live.NewAnalyzer(config.Parameters),
		evaluator: live.NewEvaluator(config, live.NewCooldownStore(), live.NewCrossFilter()),
		alerts:    sink.NewFanout(sinks...),
	}

	m.seedWindows(ctx, interval, int(capacity))

	client, err := stream.NewClient(ctx, symbols, interval, log)
	if err != nil {
		return fmt.Errorf("failed to connect kline stream: %w", err)
	}
	defer client.Close()

	go func() {
		for event := range client.Events() {
			m.windows.Apply(event)
		}
	}()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedule, func() { m.cycle(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	scheduler.Start()
	log.Info("monitor started",
		zap.Strings("symbols", symbols),
		zap.String("interval", string(interval)),
		zap.String("schedule", schedule))

	<-ctx.Done()

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	log.Info("monitor stopped")

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "sigwatch-monitor",
		Usage:   "Monitor live market data and emit alerts",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "symbol",
				Aliases:  []string{"s"},
				Usage:    "Trading pair symbol to monitor (repeatable)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Bar interval of the rolling window",
				Value:   string(types.Interval1h),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the alert configuration YAML. Defaults to the stock configuration.",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "DuckDB path to persist alerts into",
			},
			&cli.StringFlag{
				Name:  "schedule",
				Usage: "Cron schedule of the evaluation cycle",
				Value: "*/5 * * * *",
			},
			&cli.IntFlag{
				Name:  "window",
				Usage: "Rolling window capacity in bars",
				Value: 300,
			},
		},
		Action: monitorAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		stdlog.Fatal(err)
	}
}

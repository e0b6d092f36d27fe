package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/sigwatch/sigwatch/internal/alertcfg"
	"github.com/sigwatch/sigwatch/internal/hitrate"
	"github.com/sigwatch/sigwatch/internal/logger"
	"github.com/sigwatch/sigwatch/internal/scan"
	"github.com/sigwatch/sigwatch/internal/store"
	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/sigwatch/sigwatch/internal/version"
	"github.com/sigwatch/sigwatch/pkg/marketdata/provider"
)

// scanAction runs a historical scan over one symbol, optionally scores
// the alerts against forward data and persists them.
func scanAction(ctx context.Context, cmd *cli.Command) error {
	symbol := cmd.String("symbol")
	start := cmd.Timestamp("start")
	end := cmd.Timestamp("end")
	interval := types.Interval(cmd.String("interval"))
	configPath := cmd.String("config")
	dbPath := cmd.String("db")
	withHitRate := cmd.Bool("hit-rate")

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
			fmt.Fprintf(os.Stderr, "skipping condition %s: invalid value\n", key)
		}

		config = loaded
	}

	fetcher := provider.NewBinanceFetcher()

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("Scanning %s", symbol)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	onProgress := func(current, total float64, _ string) {
		if total > 0 {
			_ = bar.Set(int(current / total * 100))
		}
	}

	scanner := scan.NewScanner(fetcher, log)

	result, err := scanner.Scan(ctx, symbol, interval, start, end, config, onProgress)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	_ = bar.Finish()

	alerts := result.Alerts

	if withHitRate && len(alerts) > 0 {
		analyzer, err := hitrate.NewAnalyzer(fetcher, log, hitrate.DefaultHorizons(), hitrate.DefaultDirections())
		if err != nil {
			return fmt.Errorf("failed to create hit-rate analyzer: %w", err)
		}

		alerts = analyzer.Analyze(ctx, alerts)
	}

	if dbPath != "" {
		alertStore, err := store.NewAlertStore(dbPath, log)
		if err != nil {
			return fmt.Errorf("failed to open alert store: %w", err)
		}
		defer func() { _ = alertStore.Close() }()

		if err := alertStore.SaveAlerts(alerts); err != nil {
			return fmt.Errorf("failed to persist alerts: %w", err)
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(alerts); err != nil {
		return fmt.Errorf("failed to encode alerts: %w", err)
	}

	fmt.Fprintf(os.Stderr, "%d alerts for %s between %s and %s\n",
		len(alerts), symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "sigwatch-scan",
		Usage:   "Scan a symbol's history for triggered alert conditions",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"s"},
				Usage:    "Trading pair symbol (e.g. BTCUSDT)",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:     "start",
				Usage:    "Start date in `YYYY-MM-DD` format",
				Required: true,
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.TimestampFlag{
				Name:  "end",
				Usage: "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value: time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Bar interval (1m, 5m, 15m, 30m, 1h, 4h, 1d)",
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
			&cli.BoolFlag{
				Name:  "hit-rate",
				Usage: "Score each alert against forward 1m data",
				Value: true,
			},
		},
		Action: scanAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

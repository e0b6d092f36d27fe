// Package sink routes emitted alerts to their destinations. The
// monitoring loop produces alerts and hands them to whatever sinks are
// wired in; the core packages never depend on a particular destination.
package sink

import (
	"context"

	"go.uber.org/zap"

	"github.com/sigwatch/sigwatch/internal/logger"
	"github.com/sigwatch/sigwatch/internal/store"
	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/sigwatch/sigwatch/pkg/errors"
)

// AlertSink delivers a batch of alerts to one destination.
type AlertSink interface {
	Deliver(ctx context.Context, alerts []types.Alert) error
}

// LogSink writes each alert as a structured log line.
type LogSink struct {
	logger *logger.Logger
}

// NewLogSink creates a sink that logs alerts.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

// Deliver logs every alert in the batch. It never fails.
func (s *LogSink) Deliver(_ context.Context, alerts []types.Alert) error {
	for _, alert := range alerts {
		s.logger.Info("alert",
			zap.String("symbol", alert.Symbol),
			zap.String("condition", string(alert.Condition)),
			zap.String("description", alert.Description),
			zap.Float64("price", alert.Price),
			zap.Time("time", alert.Time))
	}

	return nil
}

// StoreSink persists alerts into the history store.
type StoreSink struct {
	store *store.AlertStore
}

// NewStoreSink creates a sink backed by an alert store.
func NewStoreSink(st *store.AlertStore) *StoreSink {
	return &StoreSink{store: st}
}

// Deliver writes the batch to the store.
func (s *StoreSink) Deliver(_ context.Context, alerts []types.Alert) error {
	return s.store.SaveAlerts(alerts)
}

// Fanout delivers every batch to all of its sinks. It keeps going past
// failures and reports the last one.
type Fanout struct {
	sinks []AlertSink
}

// NewFanout combines sinks into a single AlertSink.
func NewFanout(sinks ...AlertSink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Deliver forwards the batch to each sink in order.
func (f *Fanout) Deliver(ctx context.Context, alerts []types.Alert) error {
	var lastErr error

	for _, s := range f.sinks {
		if err := s.Deliver(ctx, alerts); err != nil {
			lastErr = err
		}
	}

	if lastErr != nil {
		return errors.Wrap(errors.ErrCodeAlertDeliveryFailed, "alert delivery failed", lastErr)
	}

	return nil
}

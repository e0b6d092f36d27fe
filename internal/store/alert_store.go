// Package store persists alert records in DuckDB. It is a soft
// collaborator: the scanners and analyzers never require it, the CLIs
// wire it in when a database path is given.
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/sigwatch/sigwatch/internal/logger"
	"github.com/sigwatch/sigwatch/internal/types"
	"github.com/sigwatch/sigwatch/pkg/errors"
)

// AlertStore writes and reads alert records. An empty path opens an
// in-memory database.
type AlertStore struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewAlertStore opens the database and ensures the schema exists.
func NewAlertStore(path string, log *logger.Logger) (*AlertStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to open alert database", err)
	}

	store := &AlertStore{db: db, logger: log}

	if err := store.initialize(); err != nil {
		_ = db.Close()

		return nil, err
	}

	return store, nil
}

func (s *AlertStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS alerts (
			id VARCHAR PRIMARY KEY,
			time TIMESTAMP NOT NULL,
			symbol VARCHAR NOT NULL,
			condition VARCHAR NOT NULL,
			description VARCHAR NOT NULL,
			price DOUBLE NOT NULL,
			hit_rate_calculated BOOLEAN NOT NULL,
			outcomes VARCHAR NOT NULL
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to create alerts table", err)
	}

	return nil
}

// SaveAlerts inserts the alerts in one transaction.
func (s *AlertStore) SaveAlerts(alerts []types.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to begin transaction", err)
	}

	builder := sq.Insert("alerts").
		Columns("id", "time", "symbol", "condition", "description", "price", "hit_rate_calculated", "outcomes")

	for _, alert := range alerts {
		outcomes, err := json.Marshal(alert.Outcomes)
		if err != nil {
			_ = tx.Rollback()

			return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to encode alert outcomes", err)
		}

		builder = builder.Values(
			alert.Id,
			alert.Time,
			alert.Symbol,
			string(alert.Condition),
			alert.Description,
			alert.Price,
			alert.HitRateCalculated,
			string(outcomes),
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		_ = tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to build insert", err)
	}

	if _, err := tx.Exec(query, args...); err != nil {
		_ = tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to insert alerts", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to commit alerts", err)
	}

	s.logger.Info("alerts persisted", zap.Int("count", len(alerts)))

	return nil
}

// QueryAlerts returns a symbol's alerts within [from, to] in
// chronological order.
func (s *AlertStore) QueryAlerts(symbol string, from, to time.Time) ([]types.Alert, error) {
	query, args, err := sq.Select("id", "time", "symbol", "condition", "description", "price", "hit_rate_calculated", "outcomes").
		From("alerts").
		Where(sq.Eq{"symbol": symbol}).
		Where(sq.GtOrEq{"time": from}).
		Where(sq.LtOrEq{"time": to}).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to build query", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to query alerts", err)
	}
	defer rows.Close()

	var alerts []types.Alert

	for rows.Next() {
		var (
			alert     types.Alert
			condition string
			outcomes  string
		)

		if err := rows.Scan(&alert.Id, &alert.Time, &alert.Symbol, &condition,
			&alert.Description, &alert.Price, &alert.HitRateCalculated, &outcomes); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to scan alert row", err)
		}

		alert.Condition = types.ConditionKey(condition)

		if err := json.Unmarshal([]byte(outcomes), &alert.Outcomes); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to decode alert outcomes", err)
		}

		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to iterate alert rows", err)
	}

	return alerts, nil
}

// Close closes the underlying database.
func (s *AlertStore) Close() error {
	return s.db.Close()
}

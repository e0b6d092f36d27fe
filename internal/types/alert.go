package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// HorizonOutcome records whether the price move after an alert agreed with
// the alert's directional bias at one time horizon. Both fields stay None
// when no forward data point exists at that horizon.
type HorizonOutcome struct {
	// Hit is true when the forward price change agreed with the alert's bias.
	Hit optional.Option[bool] `json:"hit"`
	// PctChange is the forward price change in percent, rounded to 2 decimals.
	PctChange optional.Option[float64] `json:"pct_change"`
}

// Alert is a triggered alert record. It is created by the historical
// scanner or the live evaluator and is immutable once created; the
// hit-rate analyzer returns enriched copies rather than mutating records
// in place.
type Alert struct {
	// Id is a unique identifier for the record.
	Id string `json:"id"`
	// Time is the bar (historical) or evaluation (live) timestamp, UTC.
	Time time.Time `json:"timestamp"`
	// Symbol is the trading pair the alert belongs to.
	Symbol string `json:"symbol"`
	// Condition is the stable key of the condition that fired.
	Condition ConditionKey `json:"condition"`
	// Description is a human-readable trigger description, possibly
	// embedding the indicator's numeric value.
	Description string `json:"description"`
	// Price is the close price at the trigger bar.
	Price float64 `json:"price"`
	// HitRateCalculated is false until the hit-rate analyzer has seen the
	// record, and stays false when forward data could not be fetched.
	HitRateCalculated bool `json:"hit_rate_calculated"`
	// Outcomes maps horizon name (e.g. "15m") to the forward outcome.
	Outcomes map[string]HorizonOutcome `json:"outcomes,omitempty"`
}

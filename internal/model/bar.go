package model

import (
	"fmt"
	"time"
)

// Bar is one OHLCV observation. Immutable once loaded. The timestamp carries
// the exchange timezone so session boundaries fall on local calendar dates.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// DailyBar is one calendar trading day's OHLCV row, used for the prior-day
// volatility estimate and the benchmark return series.
type DailyBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate checks the per-bar invariants: positive prices, non-negative volume.
func (b Bar) Validate() error {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar at %s has non-positive price", b.Time.Format(time.RFC3339))
	}
	if b.High < b.Low {
		return fmt.Errorf("bar at %s has high below low", b.Time.Format(time.RFC3339))
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar at %s has negative volume", b.Time.Format(time.RFC3339))
	}
	return nil
}

// SessionDate is the calendar date key of a bar, in the bar's own location.
func SessionDate(t time.Time) string { return t.Format("2006-01-02") }

// TimeBucket is the HH:MM bucket a bar belongs to, used by the time-of-day
// volatility estimator.
func TimeBucket(t time.Time) string { return t.Format("15:04") }

package backtest

import "intraday-backtest/internal/model"

// Config holds every tunable of the session engine and sizer, including the
// values that could otherwise live as package constants (trading hours,
// periods per year), so a run is fully described by its Config.
type Config struct {
	LookbackDays         int     // estimator window, prior sessions
	VolatilityMultiplier float64 // widens/narrows the noise bands
	TargetDailyVol       float64 // volatility-targeting fraction of capital
	MaxLeverage          float64 // hard leverage cap
	CommissionPerShare   float64
	SlippagePerShare     float64
	InitialCapital       float64

	// DecisionMinutes are the minute marks within the hour at which entries,
	// exits and stops are evaluated. A bar is a decision bar only when its
	// minute is listed here and its seconds are exactly zero.
	DecisionMinutes []int

	// EarliestEntry gates new entries until this minute of day; stops and
	// exits are unaffected. EntryBufferPct requires price to clear the band
	// by this fraction before an open.
	EarliestEntry  model.MinuteOfDay
	EntryBufferPct float64

	RTHStart model.MinuteOfDay // regular trading hours, inclusive
	RTHEnd   model.MinuteOfDay

	DailyVolLookback int // window for the prior-day volatility estimate
	PeriodsPerYear   int
}

// WithDefaults fills unset fields with the documented defaults.
func (c Config) WithDefaults() Config {
	q := c
	if q.LookbackDays == 0 {
		q.LookbackDays = 14
	}
	if q.VolatilityMultiplier == 0 {
		q.VolatilityMultiplier = 1.0
	}
	if q.TargetDailyVol == 0 {
		q.TargetDailyVol = 0.02
	}
	if q.MaxLeverage == 0 {
		q.MaxLeverage = 4.0
	}
	if q.CommissionPerShare == 0 {
		q.CommissionPerShare = 0.0035
	}
	if q.SlippagePerShare == 0 {
		q.SlippagePerShare = 0.001
	}
	if q.InitialCapital == 0 {
		q.InitialCapital = 100_000
	}
	if len(q.DecisionMinutes) == 0 {
		q.DecisionMinutes = []int{0, 30}
	}
	if q.RTHStart == 0 {
		q.RTHStart, _ = model.ParseHHMM("09:30")
	}
	if q.RTHEnd == 0 {
		q.RTHEnd, _ = model.ParseHHMM("16:00")
	}
	if q.DailyVolLookback == 0 {
		q.DailyVolLookback = 14
	}
	if q.PeriodsPerYear == 0 {
		q.PeriodsPerYear = 252
	}
	return q
}

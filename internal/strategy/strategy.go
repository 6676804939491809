package strategy

import "intraday-backtest/internal/model"

// Point is the per-bar output of a signal generator.
//
// Signal is the raw directional vote for this bar: +1, 0, or -1. Position is
// the exposure actually held after hold/clip rules, as a fraction of capital
// in [-max_position, +max_position].
type Point struct {
	Signal     float64
	Position   float64
	Momentum   model.Float
	Volatility model.Float
	VWAP       model.Float
	InNoise    bool
}

// Generator produces a per-bar signal/position series from ordered bars.
// The event-driven engine can use the signals to drive entries; the exposure
// simulator applies the positions directly.
type Generator interface {
	Name() string
	Generate(bars []model.Bar, sessions []model.SessionSpan) []Point
}

package noise

import (
	"math"

	"intraday-backtest/internal/model"
)

// RollingVolatility is an annualized rolling standard deviation of bar-to-bar
// returns, used by the signal generator as a fast volatility proxy. Missing
// until lookback returns have accumulated.
func RollingVolatility(bars []model.Bar, lookback int, periodsPerYear float64) []model.Float {
	out := make([]model.Float, len(bars))
	w := NewWindow(lookback)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			continue
		}
		w.Push(bars[i].Close/prev - 1)
		if w.Full() {
			out[i] = model.Some(w.Std() * math.Sqrt(periodsPerYear))
		}
	}
	return out
}

// DailyVolatility estimates prior-day volatility per session date: the
// rolling sample standard deviation of daily close-to-close returns over
// lookback days, shifted by one day so session S only ever sees information
// from strictly before S.
func DailyVolatility(days []model.DailyBar, lookback int) map[string]model.Float {
	out := make(map[string]model.Float, len(days))
	w := NewWindow(lookback)
	pending := model.None() // estimate computed as of the previous day
	for i, d := range days {
		out[model.SessionDate(d.Date)] = pending
		if i > 0 && days[i-1].Close != 0 {
			w.Push(d.Close/days[i-1].Close - 1)
		}
		if w.Full() {
			pending = model.Some(w.Std())
		} else {
			pending = model.None()
		}
	}
	return out
}

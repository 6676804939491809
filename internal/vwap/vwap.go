// Package vwap computes the running volume-weighted average price within
// each trading session.
package vwap

import "intraday-backtest/internal/model"

// Compute returns the per-bar VWAP series, aligned by index with bars.
// Accumulators reset at every session boundary; the value is missing while
// the session's cumulative volume is zero. Deterministic pure fold.
func Compute(bars []model.Bar, sessions []model.SessionSpan) []model.Float {
	out := make([]model.Float, len(bars))
	for _, s := range sessions {
		cumPV, cumVol := 0.0, 0.0
		for i := s.Start; i < s.End; i++ {
			cumPV += bars[i].Close * bars[i].Volume
			cumVol += bars[i].Volume
			if cumVol > 0 {
				out[i] = model.Some(cumPV / cumVol)
			}
		}
	}
	return out
}

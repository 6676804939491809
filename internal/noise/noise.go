package noise

import (
	"math"

	"intraday-backtest/internal/model"
)

// Band is the per-bar noise envelope. All three fields are missing until the
// estimator has lookback_days of history for the bar's time-of-day bucket,
// and for the entire first session (no previous close to gap-adjust against).
type Band struct {
	Sigma model.Float
	Upper model.Float
	Lower model.Float
}

// ComputeBands builds gap-adjusted noise bands for every bar.
//
// Sigma for bucket HH:MM of session S is the mean of |close/session_open - 1|
// at that bucket over the lookback sessions strictly preceding S; the current
// session never contributes to its own sigma. Bounds anchor the upper band at
// max(session_open, prev_close) and the lower band at min(session_open,
// prev_close), scaled by the volatility multiplier.
func ComputeBands(bars []model.Bar, sessions []model.SessionSpan, lookbackDays int, volMult float64) []Band {
	bands := make([]Band, len(bars))
	buckets := make(map[string]*Window)

	prevClose := model.None()
	for _, s := range sessions {
		open := s.Open(bars)

		for i := s.Start; i < s.End; i++ {
			w := buckets[model.TimeBucket(bars[i].Time)]
			if w == nil || !w.Full() || !prevClose.Valid {
				continue
			}
			sigma := w.Mean()
			anchorHi := math.Max(open, prevClose.Value)
			anchorLo := math.Min(open, prevClose.Value)
			bands[i] = Band{
				Sigma: model.Some(sigma),
				Upper: model.Some(anchorHi * (1 + volMult*sigma)),
				Lower: model.Some(anchorLo * (1 - volMult*sigma)),
			}
		}

		// Fold this session's moves into the bucket windows only after its
		// own bands are set, so the estimator stays strictly backward-looking.
		for i := s.Start; i < s.End; i++ {
			bucket := model.TimeBucket(bars[i].Time)
			w := buckets[bucket]
			if w == nil {
				w = NewWindow(lookbackDays)
				buckets[bucket] = w
			}
			w.Push(math.Abs(bars[i].Close/open - 1))
		}

		prevClose = model.Some(bars[s.End-1].Close)
	}
	return bands
}

package model

import "time"

// MinuteOfDay counts minutes since local midnight. It is how regular trading
// hours, decision marks and entry gates are expressed in configuration.
type MinuteOfDay int

// ParseHHMM parses "HH:MM" into a MinuteOfDay.
func ParseHHMM(s string) (MinuteOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

// Minute returns the minute-of-day for a timestamp in its own location.
func Minute(t time.Time) MinuteOfDay {
	return MinuteOfDay(t.Hour()*60 + t.Minute())
}

// SessionSpan is one trading session as an index range [Start, End) into the
// bar slice it was derived from. Keeping index ranges (rather than copied
// sub-slices) lets derived per-bar series (bands, vwap) stay aligned with the
// bars by position.
type SessionSpan struct {
	Date  string // "YYYY-MM-DD" in the bars' location
	Start int
	End   int
}

// Open is the session open: the first bar's open price.
func (s SessionSpan) Open(bars []Bar) float64 { return bars[s.Start].Open }

// SplitSessions groups chronologically ordered bars into sessions by local
// calendar date.
func SplitSessions(bars []Bar) []SessionSpan {
	var spans []SessionSpan
	for i := 0; i < len(bars); {
		date := SessionDate(bars[i].Time)
		j := i + 1
		for j < len(bars) && SessionDate(bars[j].Time) == date {
			j++
		}
		spans = append(spans, SessionSpan{Date: date, Start: i, End: j})
		i = j
	}
	return spans
}

// FilterRTH keeps bars whose minute-of-day falls inside [start, end],
// inclusive on both ends.
func FilterRTH(bars []Bar, start, end MinuteOfDay) []Bar {
	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		m := Minute(b.Time)
		if m >= start && m <= end {
			out = append(out, b)
		}
	}
	return out
}

// ClipRange keeps bars with Start <= t <= End. Zero bounds are open-ended.
func ClipRange(bars []Bar, start, end time.Time) []Bar {
	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		if !start.IsZero() && b.Time.Before(start) {
			continue
		}
		if !end.IsZero() && b.Time.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ClipDailyRange is ClipRange for the daily series.
func ClipDailyRange(days []DailyBar, start, end time.Time) []DailyBar {
	out := make([]DailyBar, 0, len(days))
	for _, d := range days {
		if !start.IsZero() && d.Date.Before(start) {
			continue
		}
		if !end.IsZero() && d.Date.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Resample downsamples intraday bars onto an M-minute grid within each
// session: open=first, high=max, low=min, close=last, volume=sum. The bucket
// timestamp is the first bar's timestamp truncated to the grid.
func Resample(bars []Bar, minutes int) []Bar {
	if minutes <= 1 || len(bars) == 0 {
		return bars
	}
	step := time.Duration(minutes) * time.Minute
	var out []Bar
	for _, b := range bars {
		bucket := b.Time.Truncate(step)
		if n := len(out); n > 0 && out[n-1].Time.Equal(bucket) && SessionDate(out[n-1].Time) == SessionDate(b.Time) {
			cur := &out[n-1]
			if b.High > cur.High {
				cur.High = b.High
			}
			if b.Low < cur.Low {
				cur.Low = b.Low
			}
			cur.Close = b.Close
			cur.Volume += b.Volume
			continue
		}
		nb := b
		nb.Time = bucket
		out = append(out, nb)
	}
	return out
}

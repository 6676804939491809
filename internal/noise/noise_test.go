package noise

import (
	"math"
	"testing"
	"time"

	"intraday-backtest/internal/model"
)

// fifteen sessions with a consistent +1% move from open to 10:00. The opens
// drift so prev_close != open and the gap adjustment is observable.
func sigmaFixture() []model.Bar {
	var bars []model.Bar
	for i := 0; i < 15; i++ {
		day := time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC)
		openPx := float64(100 + i)
		bars = append(bars, model.Bar{
			Time: day.Add(9*time.Hour + 30*time.Minute),
			Open: openPx, High: openPx, Low: openPx, Close: openPx, Volume: 1000,
		})
		close10 := openPx * 1.01
		bars = append(bars, model.Bar{
			Time: day.Add(10 * time.Hour),
			Open: close10, High: close10, Low: close10, Close: close10, Volume: 1000,
		})
	}
	return bars
}

func TestComputeBandsSigmaAndGapAdjustment(t *testing.T) {
	bars := sigmaFixture()
	sessions := model.SplitSessions(bars)
	if len(sessions) != 15 {
		t.Fatalf("expected 15 sessions, got %d", len(sessions))
	}

	bands := ComputeBands(bars, sessions, 14, 1.0)

	// The 10:00 bar of the 15th session is the last bar.
	b := bands[len(bands)-1]
	if !b.Sigma.Valid {
		t.Fatal("sigma should be defined on the 15th session")
	}
	if math.Abs(b.Sigma.Value-0.01) > 1e-6 {
		t.Fatalf("sigma = %.8f, want 0.01", b.Sigma.Value)
	}

	// Day 15: open = 114, prev_close from day 14 = 113*1.01 = 114.13.
	wantUpper := 114.13 * 1.01
	wantLower := 114.0 * 0.99
	if math.Abs(b.Upper.Value-wantUpper) > 1e-6 {
		t.Fatalf("upper = %.8f, want %.8f", b.Upper.Value, wantUpper)
	}
	if math.Abs(b.Lower.Value-wantLower) > 1e-6 {
		t.Fatalf("lower = %.8f, want %.8f", b.Lower.Value, wantLower)
	}
}

func TestComputeBandsWarmupIsMissing(t *testing.T) {
	bars := sigmaFixture()
	sessions := model.SplitSessions(bars)
	bands := ComputeBands(bars, sessions, 14, 1.0)

	// Sessions 1..14 lack 14 prior observations for their buckets; every
	// band there must propagate as missing, never as a spurious zero.
	for _, s := range sessions[:14] {
		for i := s.Start; i < s.End; i++ {
			if bands[i].Sigma.Valid || bands[i].Upper.Valid || bands[i].Lower.Valid {
				t.Fatalf("bar %d (%s): band defined during warm-up", i, s.Date)
			}
		}
	}
}

func TestComputeBandsUpperAtLeastLower(t *testing.T) {
	bars := sigmaFixture()
	sessions := model.SplitSessions(bars)
	bands := ComputeBands(bars, sessions, 3, 1.5)
	for i, b := range bands {
		if b.Upper.Valid && b.Lower.Valid && b.Upper.Value < b.Lower.Value {
			t.Fatalf("bar %d: upper %.4f < lower %.4f", i, b.Upper.Value, b.Lower.Value)
		}
	}
}

func TestWindowRollsAndStd(t *testing.T) {
	w := NewWindow(3)
	for _, v := range []float64{1, 2, 3, 4} { // 1 evicted
		w.Push(v)
	}
	if !w.Full() {
		t.Fatal("window should be full")
	}
	if got := w.Mean(); math.Abs(got-3) > 1e-12 {
		t.Fatalf("mean = %v, want 3", got)
	}
	if got := w.Std(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("std = %v, want 1", got)
	}
}

func TestDailyVolatilityShiftsByOneDay(t *testing.T) {
	days := []model.DailyBar{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 100.5},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 101.505},
		{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Close: 100.5},
		{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Close: 102},
	}
	vol := DailyVolatility(days, 2)

	for _, date := range []string{"2024-01-02", "2024-01-03", "2024-01-04"} {
		if vol[date].Valid {
			t.Fatalf("%s: estimate should be missing before the window fills", date)
		}
	}

	// Day 4's estimate uses only days 1-3 (returns r2, r3).
	r2 := 101.505/100.5 - 1
	r3 := 100.5/101.505 - 1
	m := (r2 + r3) / 2
	want := math.Sqrt((r2-m)*(r2-m) + (r3-m)*(r3-m))
	got := vol["2024-01-05"]
	if !got.Valid {
		t.Fatal("estimate for day 4 should be defined")
	}
	if math.Abs(got.Value-want) > 1e-12 {
		t.Fatalf("vol = %.10f, want %.10f", got.Value, want)
	}
}

func TestRollingVolatilityWarmup(t *testing.T) {
	var bars []model.Bar
	base := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	prices := []float64{100, 101, 100, 102, 101}
	for i, p := range prices {
		bars = append(bars, model.Bar{Time: base.Add(time.Duration(i) * time.Minute), Close: p})
	}
	vol := RollingVolatility(bars, 3, 252)
	for i := 0; i < 3; i++ {
		if vol[i].Valid {
			t.Fatalf("bar %d: volatility defined before %d returns exist", i, 3)
		}
	}
	if !vol[3].Valid || vol[3].Value <= 0 {
		t.Fatalf("bar 3: expected positive volatility, got %+v", vol[3])
	}
}

package analysis

import (
	"math"
	"testing"
	"time"

	"intraday-backtest/internal/backtest"
	"intraday-backtest/internal/model"
)

func row(date string, start, end float64) backtest.EquityRow {
	return backtest.EquityRow{Date: date, EquityStart: start, DailyPNL: end - start, EquityEnd: end}
}

func TestSharpeZeroVarianceIsZero(t *testing.T) {
	flat := []float64{0.01, 0.01, 0.01}
	if got := SharpeRatio(flat, 0, 252); got != 0 {
		t.Fatalf("Sharpe of constant returns = %v, want 0", got)
	}
	if got := SharpeRatio(nil, 0, 252); got != 0 {
		t.Fatalf("Sharpe of empty series = %v, want 0", got)
	}
	if got := SharpeRatio([]float64{0.01, -0.02, 0.03}, 0, 252); got == 0 {
		t.Fatal("Sharpe of a varying series should not be zero")
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		equity []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"non-decreasing", []float64{100, 100, 105, 110}, 0},
		{"single dip", []float64{100, 110, 99, 120}, 99.0/110 - 1},
		{"trough after later peak", []float64{100, 90, 120, 60}, 0.5 - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxDrawdown(tt.equity)
			if got > 0 {
				t.Fatalf("drawdown must be non-positive, got %v", got)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("MaxDrawdown = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlphaBetaDegenerate(t *testing.T) {
	if a, b := AlphaBeta(nil, nil, 0, 252); a != 0 || b != 0 {
		t.Fatalf("empty fit = (%v, %v), want (0, 0)", a, b)
	}
	// Zero benchmark variance has no defined slope.
	s := []float64{0.01, 0.02, -0.01}
	flat := []float64{0.005, 0.005, 0.005}
	if a, b := AlphaBeta(s, flat, 0, 252); a != 0 || b != 0 {
		t.Fatalf("flat-benchmark fit = (%v, %v), want (0, 0)", a, b)
	}
}

func TestAlphaBetaRecoversPerfectFit(t *testing.T) {
	// strategy = 2 * benchmark exactly: beta 2, alpha 0.
	bench := []float64{0.01, -0.005, 0.02, 0.003}
	strat := make([]float64, len(bench))
	for i, r := range bench {
		strat[i] = 2 * r
	}
	alpha, beta := AlphaBeta(strat, bench, 0, 252)
	if math.Abs(beta-2) > 1e-12 {
		t.Fatalf("beta = %v, want 2", beta)
	}
	if math.Abs(alpha) > 1e-12 {
		t.Fatalf("alpha = %v, want 0", alpha)
	}
}

func TestHitRatio(t *testing.T) {
	if got := HitRatio(nil); got != 0 {
		t.Fatalf("empty = %v, want 0", got)
	}
	// Zero returns are not wins.
	if got := HitRatio([]float64{0.01, 0, -0.02, 0.03}); got != 0.5 {
		t.Fatalf("HitRatio = %v, want 0.5", got)
	}
}

func TestAnnualizedReturnCompounds(t *testing.T) {
	// 252 sessions of +10bp: one full year, so CAGR equals the compounded total.
	rets := make([]float64, 252)
	for i := range rets {
		rets[i] = 0.001
	}
	want := math.Pow(1.001, 252) - 1
	if got := AnnualizedReturn(rets, 252); math.Abs(got-want) > 1e-9 {
		t.Fatalf("AnnualizedReturn = %v, want %v", got, want)
	}
	if got := AnnualizedReturn(nil, 252); got != 0 {
		t.Fatalf("empty series = %v, want 0", got)
	}
}

func TestMonthlyReturnsGroupAndCompound(t *testing.T) {
	equity := []backtest.EquityRow{
		row("2024-01-30", 100, 110),
		row("2024-01-31", 110, 99),
		row("2024-02-01", 99, 108.9),
	}
	months := MonthlyReturns(equity)
	if len(months) != 2 {
		t.Fatalf("months = %d, want 2", len(months))
	}
	if months[0].Month != "2024-01" || months[1].Month != "2024-02" {
		t.Fatalf("months out of order: %+v", months)
	}
	if math.Abs(months[0].Return-(99.0/100-1)) > 1e-12 {
		t.Fatalf("january = %v, want %v", months[0].Return, 99.0/100-1)
	}
	if math.Abs(months[1].Return-0.1) > 1e-12 {
		t.Fatalf("february = %v, want 0.1", months[1].Return)
	}
}

func TestSummarizeEndToEnd(t *testing.T) {
	equity := []backtest.EquityRow{
		row("2024-01-02", 100_000, 101_000),
		row("2024-01-03", 101_000, 100_500),
		row("2024-01-04", 100_500, 102_000),
	}
	bench := map[string]float64{
		"2024-01-02": 0.005,
		"2024-01-03": -0.002,
		"2024-01-04": 0.01,
	}
	s := Summarize(equity, bench, 252)

	if math.Abs(s.TotalReturn-0.02) > 1e-12 {
		t.Fatalf("total return = %v, want 0.02", s.TotalReturn)
	}
	if s.MaxDrawdown > 0 {
		t.Fatalf("max drawdown = %v, want <= 0", s.MaxDrawdown)
	}
	if math.Abs(s.HitRatio-2.0/3) > 1e-12 {
		t.Fatalf("hit ratio = %v, want 2/3", s.HitRatio)
	}
	if s.Beta == 0 {
		t.Fatal("beta should be fit against the benchmark")
	}
}

func TestBenchmarkReturns(t *testing.T) {
	days := []model.DailyBar{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 100},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 102},
		{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Close: 101},
	}
	rets := BenchmarkReturns(days)
	if len(rets) != 2 {
		t.Fatalf("returns = %d, want 2 (first day has no prior close)", len(rets))
	}
	if math.Abs(rets["2024-01-03"]-0.02) > 1e-12 {
		t.Fatalf("day 2 return = %v, want 0.02", rets["2024-01-03"])
	}
	if math.Abs(rets["2024-01-04"]-(101.0/102-1)) > 1e-12 {
		t.Fatalf("day 3 return = %v", rets["2024-01-04"])
	}
}

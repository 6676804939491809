package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"intraday-backtest/internal/analysis"
	"intraday-backtest/internal/backtest"
	"intraday-backtest/internal/config"
	"intraday-backtest/internal/data"
	"intraday-backtest/internal/model"
	"intraday-backtest/internal/sweep"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backtest":
		cmdBacktest(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli backtest --intraday data/spy_1min.csv --daily data/spy_daily.csv --out outputs")
	fmt.Println("  cli sweep --intraday data/spy_1min.csv --daily data/spy_daily.csv --vm 0.8,1.0,1.2 --sigma-target 0.015,0.02,0.025")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - backtest writes trades.csv and equity.csv under --out and prints summary stats")
	fmt.Println("  - sweep runs the parameter grid in parallel and ranks cells by Sharpe")
}

func cmdBacktest(args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	intradayPath := fs.String("intraday", "data/spy_1min.csv", "Path to 1-min intraday CSV")
	dailyPath := fs.String("daily", "data/spy_daily.csv", "Path to daily CSV")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	start := fs.String("start", "", "Start date (YYYY-MM-DD, inclusive)")
	end := fs.String("end", "", "End date (YYYY-MM-DD, inclusive)")
	outDir := fs.String("out", "outputs", "Directory to write trades/equity CSVs")
	earliestEntry := fs.String("earliest-entry", "10:00", "Earliest HH:MM to begin trading")
	entryBuffer := fs.Float64("entry-buffer-pct", 0.001, "Require price to clear band by this fraction before entry")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	if cfg.Backtest.EarliestEntry == "" {
		cfg.Backtest.EarliestEntry = *earliestEntry
	}
	if cfg.Backtest.EntryBufferPct == 0 {
		cfg.Backtest.EntryBufferPct = *entryBuffer
	}

	intraday, daily := loadSeries(cfg, *intradayPath, *dailyPath, *start, *end)

	sim, err := backtest.New(cfg.Engine, cfg.ToBacktest(), cfg.ToStrategy())
	if err != nil {
		fatal(err)
	}
	res, err := sim.Run(intraday, daily)
	if err != nil {
		fatal(err)
	}

	periods := float64(cfg.ToBacktest().PeriodsPerYear)
	summary := analysis.Summarize(res.Equity, analysis.BenchmarkReturns(daily), periods)
	monthly := analysis.MonthlyReturns(res.Equity)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatal(err)
	}
	tradesPath := filepath.Join(*outDir, "trades.csv")
	equityPath := filepath.Join(*outDir, "equity.csv")
	if err := backtest.WriteTradesCSV(tradesPath, res.Trades); err != nil {
		fatal(err)
	}
	if err := backtest.WriteEquityCSV(equityPath, res.Equity); err != nil {
		fatal(err)
	}

	fmt.Println("=== Performance Summary ===")
	fmt.Printf("Total return: %.2f%%\n", summary.TotalReturn*100)
	fmt.Printf("CAGR:         %.2f%%\n", summary.CAGR*100)
	fmt.Printf("Sharpe:       %.2f\n", summary.Sharpe)
	fmt.Printf("Max DD:       %.2f%%\n", summary.MaxDrawdown*100)
	fmt.Printf("Alpha:        %.2f%%\n", summary.Alpha*100)
	fmt.Printf("Beta:         %.2f\n", summary.Beta)
	fmt.Printf("Hit ratio:    %.2f%%\n", summary.HitRatio*100)
	fmt.Println()
	fmt.Println("=== Monthly Returns (last 12) ===")
	from := 0
	if len(monthly) > 12 {
		from = len(monthly) - 12
	}
	for _, m := range monthly[from:] {
		fmt.Printf("%s  %7.2f%%\n", m.Month, m.Return*100)
	}
	fmt.Println()
	fmt.Printf("Trades saved to:  %s\n", tradesPath)
	fmt.Printf("Equity saved to:  %s\n", equityPath)
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	intradayPath := fs.String("intraday", "data/spy_1min.csv", "Path to 1-min intraday CSV")
	dailyPath := fs.String("daily", "data/spy_daily.csv", "Path to daily CSV")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	start := fs.String("start", "", "Start date (YYYY-MM-DD)")
	end := fs.String("end", "", "End date (YYYY-MM-DD)")
	vms := fs.String("vm", "0.8,1.0,1.2,1.5", "Volatility multipliers to test (comma-separated)")
	sigmas := fs.String("sigma-target", "0.015,0.02,0.025", "Target daily vol levels to test (comma-separated)")
	workers := fs.Int("workers", 4, "Parallel engines")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	intraday, daily := loadSeries(cfg, *intradayPath, *dailyPath, *start, *end)

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cells := sweep.Run(intraday, daily, cfg.ToBacktest(), sweep.Grid{
		VolatilityMultipliers: parseFloats(*vms),
		TargetDailyVols:       parseFloats(*sigmas),
	}, *workers, logger)

	fmt.Printf("%8s %12s %12s %8s %8s %8s\n", "vm", "sigma_tgt", "total_ret", "cagr", "sharpe", "max_dd")
	for _, cell := range cells {
		if cell.Err != "" {
			fmt.Printf("%8.2f %12.4f  error: %s\n", cell.VolatilityMultiplier, cell.TargetDailyVol, cell.Err)
			continue
		}
		s := cell.Summary
		fmt.Printf("%8.2f %12.4f %12.4f %8.4f %8.4f %8.4f\n",
			cell.VolatilityMultiplier, cell.TargetDailyVol, s.TotalReturn, s.CAGR, s.Sharpe, s.MaxDrawdown)
	}
	if len(cells) > 0 && cells[0].Err == "" {
		best := cells[0]
		fmt.Println("\nBest by Sharpe:")
		fmt.Printf("vm=%.2f sigma_target=%.4f sharpe=%.4f\n",
			best.VolatilityMultiplier, best.TargetDailyVol, best.Summary.Sharpe)
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatal(err)
	}
	return cfg
}

func loadSeries(cfg *config.Config, intradayPath, dailyPath, start, end string) ([]model.Bar, []model.DailyBar) {
	loc, err := cfg.Location()
	if err != nil {
		fatal(err)
	}
	intraday, err := data.LoadIntraday(intradayPath, loc)
	if err != nil {
		fatal(err)
	}
	daily, err := data.LoadDaily(dailyPath)
	if err != nil {
		fatal(err)
	}

	var from, to time.Time
	if start != "" {
		if from, err = time.ParseInLocation("2006-01-02", start, loc); err != nil {
			fatal(err)
		}
	}
	if end != "" {
		if to, err = time.ParseInLocation("2006-01-02", end, loc); err != nil {
			fatal(err)
		}
		to = to.Add(24*time.Hour - time.Second)
	}
	intraday = model.ClipRange(intraday, from, to)
	daily = model.ClipDailyRange(daily, from, to)

	if m := cfg.Backtest.ResampleMinutes; m > 1 {
		intraday = model.Resample(intraday, m)
	}
	return intraday, daily
}

func parseFloats(s string) []float64 {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var v float64
		if _, err := fmt.Sscanf(part, "%g", &v); err != nil {
			fatal(fmt.Errorf("bad float %q", part))
		}
		out = append(out, v)
	}
	return out
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

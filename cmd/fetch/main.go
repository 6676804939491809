// Command fetch downloads intraday and daily OHLCV bars into the CSV files
// the backtester consumes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"intraday-backtest/internal/data"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ticker := flag.String("ticker", "SPY", "Instrument ticker")
	startDate := flag.String("start-date", "2019-01-01", "Start date (YYYY-MM-DD)")
	endDate := flag.String("end-date", "2024-01-31", "End date (YYYY-MM-DD)")
	outDir := flag.String("out", "data", "Output directory")
	baseURL := flag.String("base-url", "", "Override the data API base URL")
	flag.Parse()

	// .env is optional; the key can come from the environment directly.
	_ = godotenv.Load()
	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "POLYGON_API_KEY is required (env or .env)")
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	client := data.NewMarketDataClient(apiKey, *baseURL, logger)
	ctx := context.Background()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatal(logger, err)
	}

	logger.Info("fetching intraday bars",
		zap.String("ticker", *ticker),
		zap.String("start", *startDate),
		zap.String("end", *endDate))
	intraday, err := client.FetchAggs(ctx, *ticker, 1, "minute", *startDate, *endDate)
	if err != nil {
		fatal(logger, err)
	}
	intradayPath := filepath.Join(*outDir, strings.ToLower(*ticker)+"_1min.csv")
	if err := data.WriteIntradayCSV(intradayPath, intraday); err != nil {
		fatal(logger, err)
	}
	logger.Info("wrote intraday bars", zap.String("path", intradayPath), zap.Int("bars", len(intraday)))

	logger.Info("fetching daily bars", zap.String("ticker", *ticker))
	daily, err := client.FetchAggs(ctx, *ticker, 1, "day", *startDate, *endDate)
	if err != nil {
		fatal(logger, err)
	}
	dailyPath := filepath.Join(*outDir, strings.ToLower(*ticker)+"_daily.csv")
	if err := data.WriteDailyCSV(dailyPath, daily); err != nil {
		fatal(logger, err)
	}
	logger.Info("wrote daily bars", zap.String("path", dailyPath), zap.Int("bars", len(daily)))
}

func fatal(logger *zap.Logger, err error) {
	logger.Error("fetch failed", zap.Error(err))
	os.Exit(1)
}

package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"intraday-backtest/internal/analysis"
	"intraday-backtest/internal/api/models"
	"intraday-backtest/internal/backtest"
	"intraday-backtest/internal/config"
	"intraday-backtest/internal/data"
	"intraday-backtest/internal/model"
	"intraday-backtest/internal/sweep"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BacktestHandler handles backtest-related requests.
type BacktestHandler struct{}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler() *BacktestHandler {
	return &BacktestHandler{}
}

// RunBacktest handles POST /api/v1/backtest.
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	if err := req.Config.Validate(); err != nil {
		badRequest(c, "INVALID_CONFIG", err)
		return
	}

	intraday, daily, err := loadSeries(req.DataSource, &req.Config)
	if err != nil {
		writeLoadError(c, err)
		return
	}

	sim, err := backtest.New(req.Config.Engine, req.Config.ToBacktest(), req.Config.ToStrategy())
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err)
		return
	}

	started := time.Now()
	res, err := sim.Run(intraday, daily)
	if err != nil {
		badRequest(c, "BACKTEST_ERROR", err)
		return
	}
	log.Printf("backtest %s: %d sessions, %d trades in %s",
		sim.Name(), len(res.Equity), len(res.Trades), time.Since(started))

	periods := float64(req.Config.ToBacktest().PeriodsPerYear)
	benchmark := analysis.BenchmarkReturns(daily)

	resp := models.BacktestResponse{
		ID:             uuid.NewString(),
		Status:         "completed",
		Engine:         sim.Name(),
		Summary:        analysis.Summarize(res.Equity, benchmark, periods),
		MonthlyReturns: analysis.MonthlyReturns(res.Equity),
	}
	if req.Options.IncludeTrades {
		resp.Trades = toTradeRows(res.Trades)
	}
	if req.Options.IncludeEquity {
		resp.Equity = toEquityRows(res.Equity)
	}
	c.JSON(http.StatusOK, resp)
}

// RunSweep handles POST /api/v1/sweep.
func (h *BacktestHandler) RunSweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	if err := req.Config.Validate(); err != nil {
		badRequest(c, "INVALID_CONFIG", err)
		return
	}

	intraday, daily, err := loadSeries(req.DataSource, &req.Config)
	if err != nil {
		writeLoadError(c, err)
		return
	}

	cells := sweep.Run(intraday, daily, req.Config.ToBacktest(), sweep.Grid{
		VolatilityMultipliers: req.VolatilityMultipliers,
		TargetDailyVols:       req.TargetDailyVols,
	}, req.Workers, nil)

	c.JSON(http.StatusOK, models.SweepResponse{ID: uuid.NewString(), Cells: cells})
}

func loadSeries(src models.DataSourceConfig, cfg *config.Config) ([]model.Bar, []model.DailyBar, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	intraday, err := data.LoadIntraday(src.IntradayPath, loc)
	if err != nil {
		return nil, nil, err
	}
	daily, err := data.LoadDaily(src.DailyPath)
	if err != nil {
		return nil, nil, err
	}

	var start, end time.Time
	if src.StartDate != "" {
		if start, err = time.ParseInLocation("2006-01-02", src.StartDate, loc); err != nil {
			return nil, nil, err
		}
	}
	if src.EndDate != "" {
		if end, err = time.ParseInLocation("2006-01-02", src.EndDate, loc); err != nil {
			return nil, nil, err
		}
		end = end.Add(24*time.Hour - time.Second)
	}
	intraday = model.ClipRange(intraday, start, end)
	daily = model.ClipDailyRange(daily, start, end)

	if m := cfg.Backtest.ResampleMinutes; m > 1 {
		intraday = model.Resample(intraday, m)
	}
	return intraday, daily, nil
}

func writeLoadError(c *gin.Context, err error) {
	var schemaErr *data.SchemaError
	var precondErr *data.PreconditionError
	switch {
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "SCHEMA_ERROR",
			Message: schemaErr.Error(),
			Details: map[string]interface{}{"missing_columns": schemaErr.Missing},
		}})
	case errors.As(err, &precondErr):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "PRECONDITION_ERROR",
			Message: precondErr.Error(),
		}})
	default:
		badRequest(c, "DATA_LOAD_ERROR", err)
	}
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorDetail{
		Code:    code,
		Message: err.Error(),
	}})
}

func toTradeRows(trades []backtest.Trade) []models.TradeRow {
	out := make([]models.TradeRow, len(trades))
	for i, t := range trades {
		out[i] = models.TradeRow{
			EntryTime:  t.EntryTime,
			ExitTime:   t.ExitTime,
			Side:       t.Side.String(),
			Shares:     t.Shares,
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			GrossPNL:   t.GrossPNL,
			Costs:      t.Costs,
			NetPNL:     t.NetPNL,
			ExitReason: string(t.ExitReason),
		}
	}
	return out
}

func toEquityRows(equity []backtest.EquityRow) []models.EquityRow {
	out := make([]models.EquityRow, len(equity))
	for i, r := range equity {
		row := models.EquityRow{
			Date:        r.Date,
			EquityStart: r.EquityStart,
			DailyPNL:    r.DailyPNL,
			EquityEnd:   r.EquityEnd,
			Shares:      r.Shares,
		}
		if r.VolEst.Valid {
			v := r.VolEst.Value
			row.VolEst = &v
		}
		out[i] = row
	}
	return out
}

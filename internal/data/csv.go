package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"intraday-backtest/internal/model"
)

var requiredIntradayColumns = []string{"timestamp", "open", "high", "low", "close", "volume"}
var requiredDailyColumns = []string{"date", "open", "high", "low", "close", "volume"}

// LoadIntraday reads 1-minute OHLCV bars from a CSV file, validates the
// schema, sorts by timestamp and localizes naive timestamps to loc (the
// instrument's exchange timezone). Duplicate timestamps are rejected.
func LoadIntraday(path string, loc *time.Location) ([]model.Bar, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(path, header, requiredIntradayColumns)
	if err != nil {
		return nil, err
	}

	bars := make([]model.Bar, 0, len(rows))
	for i, row := range rows {
		ts, err := parseTimestamp(row[cols["timestamp"]], loc)
		if err != nil {
			return nil, &PreconditionError{Path: path, Row: i + 1, Msg: err.Error()}
		}
		b := model.Bar{Time: ts}
		if b.Open, b.High, b.Low, b.Close, b.Volume, err = parseOHLCV(row, cols); err != nil {
			return nil, &PreconditionError{Path: path, Row: i + 1, Msg: err.Error()}
		}
		if err := b.Validate(); err != nil {
			return nil, &PreconditionError{Path: path, Row: i + 1, Msg: err.Error()}
		}
		bars = append(bars, b)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	for i := 1; i < len(bars); i++ {
		if bars[i].Time.Equal(bars[i-1].Time) {
			return nil, &PreconditionError{Path: path,
				Msg: fmt.Sprintf("duplicate timestamp %s", bars[i].Time.Format(time.RFC3339))}
		}
	}
	return bars, nil
}

// LoadDaily reads the daily OHLCV series used for volatility sizing and the
// benchmark.
func LoadDaily(path string) ([]model.DailyBar, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(path, header, requiredDailyColumns)
	if err != nil {
		return nil, err
	}

	days := make([]model.DailyBar, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse("2006-01-02", row[cols["date"]])
		if err != nil {
			return nil, &PreconditionError{Path: path, Row: i + 1, Msg: err.Error()}
		}
		d := model.DailyBar{Date: date}
		if d.Open, d.High, d.Low, d.Close, d.Volume, err = parseOHLCV(row, cols); err != nil {
			return nil, &PreconditionError{Path: path, Row: i + 1, Msg: err.Error()}
		}
		days = append(days, d)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	for i := 1; i < len(days); i++ {
		if days[i].Date.Equal(days[i-1].Date) {
			return nil, &PreconditionError{Path: path,
				Msg: fmt.Sprintf("duplicate date %s", days[i].Date.Format("2006-01-02"))}
		}
	}
	return days, nil
}

func readCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, &PreconditionError{Path: path, Msg: "empty file"}
	}
	return records[0], records[1:], nil
}

func columnIndex(path string, header, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: path, Missing: missing}
	}
	return cols, nil
}

func parseOHLCV(row []string, cols map[string]int) (o, h, l, c, v float64, err error) {
	fields := []struct {
		name string
		dst  *float64
	}{
		{"open", &o}, {"high", &h}, {"low", &l}, {"close", &c}, {"volume", &v},
	}
	for _, f := range fields {
		*f.dst, err = strconv.ParseFloat(row[cols[f.name]], 64)
		if err != nil {
			return 0, 0, 0, 0, 0, fmt.Errorf("bad %s value %q", f.name, row[cols[f.name]])
		}
	}
	return o, h, l, c, v, nil
}

// parseTimestamp accepts ISO-8601 with an offset, or a naive timestamp which
// is then localized to loc.
func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

package data

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// WriteIntradayCSV writes fetched aggregates in the intraday input schema,
// timestamps as ISO-8601 UTC.
func WriteIntradayCSV(path string, aggs []Agg) error {
	return writeAggs(path, aggs, "timestamp", func(a Agg) string {
		return time.UnixMilli(a.Timestamp).UTC().Format("2006-01-02T15:04:05Z")
	})
}

// WriteDailyCSV writes fetched aggregates in the daily input schema.
func WriteDailyCSV(path string, aggs []Agg) error {
	return writeAggs(path, aggs, "date", func(a Agg) string {
		return time.UnixMilli(a.Timestamp).UTC().Format("2006-01-02")
	})
}

func writeAggs(path string, aggs []Agg, timeCol string, fmtTime func(Agg) string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{timeCol, "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, a := range aggs {
		row := []string{
			fmtTime(a),
			strconv.FormatFloat(a.Open, 'f', -1, 64),
			strconv.FormatFloat(a.High, 'f', -1, 64),
			strconv.FormatFloat(a.Low, 'f', -1, 64),
			strconv.FormatFloat(a.Close, 'f', -1, 64),
			strconv.FormatFloat(a.Volume, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

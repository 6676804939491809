package model

import (
	"testing"
	"time"
)

func minuteBar(day, hour, minute int, close float64) Bar {
	ts := time.Date(2024, 1, day, hour, minute, 0, 0, time.UTC)
	return Bar{Time: ts, Open: close, High: close, Low: close, Close: close, Volume: 10}
}

func TestParseHHMM(t *testing.T) {
	m, err := ParseHHMM("09:30")
	if err != nil {
		t.Fatalf("ParseHHMM: %v", err)
	}
	if m != 570 {
		t.Fatalf("09:30 = %d, want 570", m)
	}
	if _, err := ParseHHMM("930"); err == nil {
		t.Fatal("expected error for malformed time")
	}
}

func TestSplitSessions(t *testing.T) {
	bars := []Bar{
		minuteBar(2, 9, 30, 100),
		minuteBar(2, 9, 31, 101),
		minuteBar(3, 9, 30, 102),
	}
	spans := SplitSessions(bars)
	if len(spans) != 2 {
		t.Fatalf("sessions = %d, want 2", len(spans))
	}
	if spans[0].Date != "2024-01-02" || spans[0].Start != 0 || spans[0].End != 2 {
		t.Fatalf("first span = %+v", spans[0])
	}
	if spans[1].Date != "2024-01-03" || spans[1].Start != 2 || spans[1].End != 3 {
		t.Fatalf("second span = %+v", spans[1])
	}
	if got := spans[1].Open(bars); got != 102 {
		t.Fatalf("session open = %v, want 102", got)
	}
}

func TestFilterRTHInclusiveBounds(t *testing.T) {
	bars := []Bar{
		minuteBar(2, 9, 29, 1),  // pre-market
		minuteBar(2, 9, 30, 2),  // open, kept
		minuteBar(2, 12, 0, 3),  // kept
		minuteBar(2, 16, 0, 4),  // close, kept
		minuteBar(2, 16, 1, 5),  // after hours
	}
	start, _ := ParseHHMM("09:30")
	end, _ := ParseHHMM("16:00")
	got := FilterRTH(bars, start, end)
	if len(got) != 3 {
		t.Fatalf("kept %d bars, want 3", len(got))
	}
	if got[0].Close != 2 || got[2].Close != 4 {
		t.Fatalf("wrong bars kept: %+v", got)
	}
}

func TestClipRangeOpenEnded(t *testing.T) {
	bars := []Bar{
		minuteBar(2, 9, 30, 1),
		minuteBar(3, 9, 30, 2),
		minuteBar(4, 9, 30, 3),
	}
	from := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if got := ClipRange(bars, from, time.Time{}); len(got) != 2 || got[0].Close != 2 {
		t.Fatalf("clip from: %+v", got)
	}
	to := time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)
	if got := ClipRange(bars, time.Time{}, to); len(got) != 1 || got[0].Close != 1 {
		t.Fatalf("clip to: %+v", got)
	}
	if got := ClipRange(bars, time.Time{}, time.Time{}); len(got) != 3 {
		t.Fatalf("unbounded clip dropped bars: %+v", got)
	}
}

func TestResampleFiveMinutes(t *testing.T) {
	bars := []Bar{
		{Time: time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC), Open: 100, High: 101, Low: 99.5, Close: 100.5, Volume: 10},
		{Time: time.Date(2024, 1, 2, 9, 31, 0, 0, time.UTC), Open: 100.5, High: 102, Low: 100.2, Close: 101.8, Volume: 20},
		{Time: time.Date(2024, 1, 2, 9, 34, 0, 0, time.UTC), Open: 101.8, High: 101.9, Low: 99, Close: 99.2, Volume: 5},
		{Time: time.Date(2024, 1, 2, 9, 35, 0, 0, time.UTC), Open: 99.2, High: 99.5, Low: 99, Close: 99.4, Volume: 7},
	}
	got := Resample(bars, 5)
	if len(got) != 2 {
		t.Fatalf("buckets = %d, want 2", len(got))
	}
	b := got[0]
	if !b.Time.Equal(time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("bucket time = %s", b.Time)
	}
	if b.Open != 100 || b.High != 102 || b.Low != 99 || b.Close != 99.2 || b.Volume != 35 {
		t.Fatalf("bucket OHLCV = %+v", b)
	}
	if got[1].Open != 99.2 || got[1].Volume != 7 {
		t.Fatalf("second bucket = %+v", got[1])
	}
}

func TestResamplePassThrough(t *testing.T) {
	bars := []Bar{minuteBar(2, 9, 30, 100)}
	if got := Resample(bars, 1); len(got) != 1 || got[0].Close != 100 {
		t.Fatalf("1-minute resample should be identity: %+v", got)
	}
}

func TestBarValidate(t *testing.T) {
	ts := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	ok := Bar{Time: ts, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 10}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid bar rejected: %v", err)
	}
	bad := []Bar{
		{Time: ts, Open: 0, High: 101, Low: 99, Close: 100, Volume: 10},
		{Time: ts, Open: 100, High: 99, Low: 101, Close: 100, Volume: 10},
		{Time: ts, Open: 100, High: 101, Low: 99, Close: 100, Volume: -1},
	}
	for i, b := range bad {
		if err := b.Validate(); err == nil {
			t.Fatalf("bad bar %d accepted", i)
		}
	}
}

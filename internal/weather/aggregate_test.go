package weather

import (
	"testing"
	"time"
)

func sampleAt(ts time.Time, min, max float64, desc, icon string) ForecastSample {
	return ForecastSample{
		Timestamp:   ts,
		Temperature: (min + max) / 2,
		TempMin:     min,
		TempMax:     max,
		Description: desc,
		Icon:        icon,
	}
}

func TestHourlyWindowSortsAndLimits(t *testing.T) {
	base := time.Date(2024, 12, 9, 6, 0, 0, 0, time.UTC)

	// Deliberately out of order.
	samples := []ForecastSample{
		sampleAt(base.Add(9*time.Hour), 1, 2, "", ""),
		sampleAt(base, 1, 2, "", ""),
		sampleAt(base.Add(12*time.Hour), 1, 2, "", ""),
		sampleAt(base.Add(3*time.Hour), 1, 2, "", ""),
		sampleAt(base.Add(6*time.Hour), 1, 2, "", ""),
	}

	window := HourlyWindow(samples, 4)
	if len(window) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(window))
	}
	for i := 1; i < len(window); i++ {
		if !window[i-1].Timestamp.Before(window[i].Timestamp) {
			t.Fatalf("entries not ascending at index %d", i)
		}
	}
	if !window[0].Timestamp.Equal(base) {
		t.Fatalf("expected window to start at %v, got %v", base, window[0].Timestamp)
	}

	// Input must not be reordered.
	if !samples[0].Timestamp.Equal(base.Add(9 * time.Hour)) {
		t.Fatal("input slice was mutated")
	}
}

func TestHourlyWindowEmptyInput(t *testing.T) {
	if got := HourlyWindow(nil, 4); len(got) != 0 {
		t.Fatalf("expected empty window, got %d entries", len(got))
	}
}

func TestDailyAggregatesEmptyInput(t *testing.T) {
	if got := DailyAggregates(nil, 4, time.UTC); len(got) != 0 {
		t.Fatalf("expected no aggregates, got %d", len(got))
	}
}

func TestDailyAggregatesGroupsByDayAscending(t *testing.T) {
	day1 := time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)

	// Days interleaved on purpose; extrema must be order-independent.
	samples := []ForecastSample{
		sampleAt(day2.Add(15*time.Hour), -2, 4, "snow", "13d"),
		sampleAt(day1.Add(9*time.Hour), 3, 11, "light rain", "10d"),
		sampleAt(day3.Add(12*time.Hour), 0, 7, "few clouds", "02d"),
		sampleAt(day1.Add(15*time.Hour), 5, 14, "clear sky", "01d"),
		sampleAt(day2.Add(6*time.Hour), -1, 2, "overcast clouds", "04d"),
		sampleAt(day1.Add(12*time.Hour), 4, 9, "broken clouds", "04d"),
	}

	aggs := DailyAggregates(samples, 4, time.UTC)
	if len(aggs) != 3 {
		t.Fatalf("expected 3 aggregates, got %d", len(aggs))
	}

	wantDays := []time.Time{day1, day2, day3}
	for i, agg := range aggs {
		if !agg.Day.Equal(wantDays[i]) {
			t.Fatalf("aggregate %d: expected day %v, got %v", i, wantDays[i], agg.Day)
		}
	}

	// Day 1: high from the 15:00 sample, low from the 09:00 sample.
	if aggs[0].High != 14 || aggs[0].Low != 3 {
		t.Fatalf("day 1: expected high 14 / low 3, got %v / %v", aggs[0].High, aggs[0].Low)
	}
	// Day 2: high 4, low -2, both from the same 15:00 sample.
	if aggs[1].High != 4 || aggs[1].Low != -2 {
		t.Fatalf("day 2: expected high 4 / low -2, got %v / %v", aggs[1].High, aggs[1].Low)
	}
}

func TestDailyAggregatesRepresentativeIsEarliestSample(t *testing.T) {
	day := time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC)
	pop := 0.42

	morning := sampleAt(day.Add(6*time.Hour), 2, 5, "mist", "50d")
	morning.Precipitation = &pop

	// The afternoon sample sets both extrema but must not supply the
	// description, icon or rain chance.
	afternoon := sampleAt(day.Add(15*time.Hour), 1, 12, "clear sky", "01d")

	aggs := DailyAggregates([]ForecastSample{afternoon, morning}, 4, time.UTC)
	if len(aggs) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(aggs))
	}

	agg := aggs[0]
	if agg.High != 12 || agg.Low != 1 {
		t.Fatalf("expected high 12 / low 1, got %v / %v", agg.High, agg.Low)
	}
	if agg.Description != "mist" || agg.Icon != "50d" {
		t.Fatalf("representative fields not from earliest sample: %q / %q", agg.Description, agg.Icon)
	}
	if agg.Precipitation != "42%" {
		t.Fatalf("expected precipitation 42%%, got %q", agg.Precipitation)
	}
}

func TestDailyAggregatesSingleSampleKeepsOwnExtrema(t *testing.T) {
	day := time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC)
	only := sampleAt(day.Add(9*time.Hour), 3, 8, "clear sky", "01d")

	aggs := DailyAggregates([]ForecastSample{only}, 4, time.UTC)
	if len(aggs) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(aggs))
	}
	// A lone sample still carries distinct min/max fields.
	if aggs[0].High != 8 || aggs[0].Low != 3 {
		t.Fatalf("expected high 8 / low 3, got %v / %v", aggs[0].High, aggs[0].Low)
	}
	if aggs[0].Precipitation != "" {
		t.Fatalf("expected empty precipitation sentinel, got %q", aggs[0].Precipitation)
	}
}

func TestDailyAggregatesLimitsToWindow(t *testing.T) {
	day := time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC)

	var samples []ForecastSample
	for i := 0; i < 6; i++ {
		samples = append(samples, sampleAt(day.AddDate(0, 0, i).Add(9*time.Hour), 1, 2, "", ""))
	}

	aggs := DailyAggregates(samples, DefaultWindow, time.UTC)
	if len(aggs) != DefaultWindow {
		t.Fatalf("expected %d aggregates, got %d", DefaultWindow, len(aggs))
	}
	if !aggs[len(aggs)-1].Day.Equal(day.AddDate(0, 0, 3)) {
		t.Fatalf("limit kept the wrong days: last is %v", aggs[len(aggs)-1].Day)
	}
}

func TestDailyAggregatesRespectsZone(t *testing.T) {
	// 23:00 UTC on Dec 9 is already Dec 10 in UTC+3.
	zone := time.FixedZone("UTC+3", 3*60*60)
	late := sampleAt(time.Date(2024, 12, 9, 23, 0, 0, 0, time.UTC), 1, 2, "", "")

	aggs := DailyAggregates([]ForecastSample{late}, 4, zone)
	if len(aggs) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(aggs))
	}
	want := time.Date(2024, 12, 10, 0, 0, 0, 0, zone)
	if !aggs[0].Day.Equal(want) {
		t.Fatalf("expected day %v, got %v", want, aggs[0].Day)
	}
}

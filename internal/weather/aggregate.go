package weather

import (
	"sort"
	"time"
)

// DefaultWindow is how many entries the hourly and daily views keep.
const DefaultWindow = 4

// HourlyWindow returns the first limit samples ordered by ascending
// timestamp. The sort is stable, so samples sharing a timestamp keep their
// input order. The input slice is not mutated.
func HourlyWindow(samples []ForecastSample, limit int) []ForecastSample {
	if len(samples) == 0 {
		return nil
	}

	sorted := make([]ForecastSample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// DailyAggregates groups samples by calendar day in the given zone and
// returns one aggregate per day for the first limit days, ascending.
//
// High and low are the extrema of TempMax/TempMin across the day's samples.
// Description, icon and precipitation come from the day's chronologically
// earliest sample, independent of which samples set the extrema. An input
// without samples yields an empty result.
func DailyAggregates(samples []ForecastSample, limit int, zone *time.Location) []DailyAggregate {
	if len(samples) == 0 {
		return nil
	}
	if zone == nil {
		zone = time.Local
	}

	byDay := make(map[time.Time][]ForecastSample)
	for _, s := range samples {
		day := startOfDay(s.Timestamp, zone)
		byDay[day] = append(byDay[day], s)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}

	aggregates := make([]DailyAggregate, 0, len(days))
	for _, day := range days {
		group := byDay[day]

		earliest := group[0]
		high := group[0].TempMax
		low := group[0].TempMin
		for _, s := range group[1:] {
			if s.Timestamp.Before(earliest.Timestamp) {
				earliest = s
			}
			if s.TempMax > high {
				high = s.TempMax
			}
			if s.TempMin < low {
				low = s.TempMin
			}
		}

		aggregates = append(aggregates, DailyAggregate{
			Day:           day,
			High:          high,
			Low:           low,
			Description:   earliest.Description,
			Icon:          earliest.Icon,
			Precipitation: earliest.RainPercent(),
		})
	}

	return aggregates
}

// startOfDay truncates t to midnight in the given zone.
func startOfDay(t time.Time, zone *time.Location) time.Time {
	local := t.In(zone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
}

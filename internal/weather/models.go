package weather

import (
	"fmt"
	"time"
)

// ForecastSample is a single reading from the 3-hourly forecast series.
// Samples are immutable once decoded from a provider response.
type ForecastSample struct {
	Timestamp   time.Time `json:"timestamp"` // always UTC
	Temperature float64   `json:"temperatureC"`
	TempMin     float64   `json:"tempMinC"`
	TempMax     float64   `json:"tempMaxC"`
	FeelsLike   float64   `json:"feelsLikeC"`
	Humidity    int       `json:"humidityPercent"`
	Pressure    float64   `json:"pressureHpa"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`

	// Precipitation is the probability of precipitation in [0, 1].
	// Nil means the provider did not report it, which is distinct from 0.
	Precipitation *float64 `json:"precipitation,omitempty"`
}

// RainPercent renders the precipitation probability as a whole percentage,
// or an empty string when the sample carried none.
func (s ForecastSample) RainPercent() string {
	if s.Precipitation == nil {
		return ""
	}
	return fmt.Sprintf("%d%%", int(*s.Precipitation*100))
}

// CurrentWeather is the point-in-time reading for "now". It is replaced
// wholesale on every successful fetch, never patched field by field.
type CurrentWeather struct {
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Temperature float64 `json:"temperatureC"`
	TempMin     float64 `json:"tempMinC"`
	TempMax     float64 `json:"tempMaxC"`
	FeelsLike   float64 `json:"feelsLikeC"`
	Humidity    int     `json:"humidityPercent"`
	Pressure    float64 `json:"pressureHpa"`
	WindSpeed   float64 `json:"windSpeedMs"` // native m/s
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// WindKMH converts the stored wind speed from m/s to km/h for display.
func (w CurrentWeather) WindKMH() float64 {
	return w.WindSpeed * 3.6
}

// DailyAggregate is a derived per-calendar-day summary. Identity is the
// Day field; aggregates are recomputed from the sample list, never mutated.
type DailyAggregate struct {
	Day         time.Time `json:"day"` // midnight in the aggregation zone
	High        float64   `json:"highC"`
	Low         float64   `json:"lowC"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`

	// Precipitation is the earliest sample's rain chance as a percentage
	// string, empty when that sample carried no probability.
	Precipitation string `json:"precipitation"`
}

// CitySummary is the condensed weather shown next to a saved city.
type CitySummary struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperatureC"`
	FeelsLike   float64 `json:"feelsLikeC"`
	High        float64 `json:"highC"`
	Low         float64 `json:"lowC"`
}

// Summary condenses a current-weather reading into a city-list entry.
func (w CurrentWeather) Summary() CitySummary {
	return CitySummary{
		City:        w.City,
		Temperature: w.Temperature,
		FeelsLike:   w.FeelsLike,
		High:        w.TempMax,
		Low:         w.TempMin,
	}
}

package session

import "weather-session/internal/weather"

// CityStatus tells a tracked city's cache entry apart from "never loaded":
// loading means a fetch is pending, failed means the last fetch errored.
type CityStatus string

const (
	CityLoading CityStatus = "loading"
	CityReady   CityStatus = "ready"
	CityFailed  CityStatus = "failed"
)

// CityEntry is one city's cached weather summary. On failure the previous
// summary is kept so the list can keep rendering stale-but-valid data.
type CityEntry struct {
	Status  CityStatus          `json:"status"`
	Summary weather.CitySummary `json:"summary"`
	Err     string              `json:"error,omitempty"`
}

// State is the session snapshot published to consumers. It is an immutable
// value replaced wholesale on every update; the slices it carries are never
// modified after publication.
type State struct {
	City              string                   `json:"city"`
	IsCurrentLocation bool                     `json:"isCurrentLocation"`
	Current           weather.CurrentWeather   `json:"current"`
	Samples           []weather.ForecastSample `json:"samples"`
	Hourly            []weather.ForecastSample `json:"hourly"`
	Daily             []weather.DailyAggregate `json:"daily"`
	Loading           bool                     `json:"loading"`
	Err               string                   `json:"error,omitempty"`
}

package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const currentWeatherBody = `{
	"coord": {"lon": 139.69, "lat": 35.69},
	"name": "Tokyo",
	"main": {"temp": 11.2, "temp_min": 8.4, "temp_max": 13.1, "feels_like": 10.1, "humidity": 61, "pressure": 1015},
	"weather": [{"description": "scattered clouds", "icon": "03d"}],
	"wind": {"speed": 4.6}
}`

const forecastBody = `{
	"list": [
		{"dt": 1733724000, "main": {"temp": 9.0, "temp_min": 7.5, "temp_max": 9.8, "feels_like": 7.9, "humidity": 70, "pressure": 1013},
		 "weather": [{"description": "light rain", "icon": "10d"}], "pop": 0.35},
		{"dt": 1733734800, "main": {"temp": 10.5, "temp_min": 9.1, "temp_max": 11.9, "feels_like": 9.6, "humidity": 66, "pressure": 1012},
		 "weather": [{"description": "broken clouds", "icon": "04d"}]}
	],
	"city": {"name": "Tokyo", "country": "JP"}
}`

func TestCurrentWeatherDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Tokyo" {
			t.Errorf("expected q=Tokyo, got %q", got)
		}
		w.Write([]byte(currentWeatherBody))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "test-key")
	p.weatherURL = srv.URL

	current, err := p.CurrentWeather(context.Background(), "Tokyo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.City != "Tokyo" || current.Latitude != 35.69 || current.Longitude != 139.69 {
		t.Fatalf("unexpected identity fields: %+v", current)
	}
	if current.Temperature != 11.2 || current.Humidity != 61 || current.WindSpeed != 4.6 {
		t.Fatalf("unexpected readings: %+v", current)
	}
	if current.Description != "scattered clouds" || current.Icon != "03d" {
		t.Fatalf("unexpected condition: %+v", current)
	}
}

func TestCurrentWeatherUnknownCity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "test-key")
	p.weatherURL = srv.URL

	_, err := p.CurrentWeather(context.Background(), "Nowhereville")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
}

func TestForecastDecodesSamples(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "test-key")
	p.forecastURL = srv.URL

	samples, name, err := p.Forecast(context.Background(), 35.69, 139.69)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Tokyo, JP" {
		t.Fatalf("expected display name Tokyo, JP, got %q", name)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}

	first := samples[0]
	if first.Precipitation == nil || *first.Precipitation != 0.35 {
		t.Fatalf("expected pop 0.35, got %v", first.Precipitation)
	}
	if first.RainPercent() != "35%" {
		t.Fatalf("expected 35%%, got %q", first.RainPercent())
	}

	// Absent pop stays unknown, not zero.
	if samples[1].Precipitation != nil {
		t.Fatalf("expected nil pop, got %v", *samples[1].Precipitation)
	}
	if samples[1].RainPercent() != "" {
		t.Fatalf("expected empty rain percent, got %q", samples[1].RainPercent())
	}
}

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"weather-session/internal/session"
	"weather-session/internal/store"
	"weather-session/internal/weather"
)

type stubWeather struct{}

func (stubWeather) CurrentWeather(ctx context.Context, city string) (weather.CurrentWeather, error) {
	return weather.CurrentWeather{City: city, Latitude: 1, Longitude: 2, Temperature: 10}, nil
}

type stubForecast struct{}

func (stubForecast) Forecast(ctx context.Context, lat, lon float64) ([]weather.ForecastSample, string, error) {
	return []weather.ForecastSample{{Timestamp: time.Now().UTC()}}, "", nil
}

func newTestApp(t *testing.T) (*fiber.App, *session.Controller) {
	t.Helper()

	mem := store.NewMemoryStore()
	ctrl := session.New(session.Config{
		Weather:  stubWeather{},
		Forecast: stubForecast{},
		Cities:   mem,
		LastCity: mem,
		Zone:     time.UTC,
	})

	app := fiber.New()
	RegisterRoutes(app, ctrl)
	return app, ctrl
}

func TestSelectCityValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// Missing body should return 400.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/city", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestSelectCityUpdatesSession(t *testing.T) {
	app, ctrl := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/city", strings.NewReader(`{"city":"Tokyo"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, resp.StatusCode)
	}

	// The fetch chain is asynchronous; wait for it to settle.
	ctrl.Wait()

	req = httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var state session.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decoding session state: %v", err)
	}
	if state.City != "Tokyo" || len(state.Samples) != 1 {
		t.Fatalf("session not updated: %+v", state)
	}
}

func TestCityListEndpoints(t *testing.T) {
	app, ctrl := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cities", strings.NewReader(`{"city":"Paris"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/cities/Paris", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, resp.StatusCode)
	}

	ctrl.Wait()
	if got := ctrl.Cities(); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"weather-session/internal/weather"
)

// OpenWeatherProvider fetches current weather and the 3-hourly forecast
// series from OpenWeatherMap.
type OpenWeatherProvider struct {
	apiKey      string
	weatherURL  string
	forecastURL string
	client      *client
}

func NewOpenWeatherProvider(httpClient *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		apiKey:      apiKey,
		weatherURL:  "https://api.openweathermap.org/data/2.5/weather",
		forecastURL: "https://api.openweathermap.org/data/2.5/forecast",
		client:      newClient(httpClient, "openweather"),
	}
}

// mainBlock is the shared "main" object of both endpoints.
type mainBlock struct {
	Temp      float64 `json:"temp"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
	Pressure  float64 `json:"pressure"`
}

type conditionBlock struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentWeather fetches the current reading for a city by name.
func (p *OpenWeatherProvider) CurrentWeather(ctx context.Context, city string) (weather.CurrentWeather, error) {
	if p.apiKey == "" {
		return weather.CurrentWeather{}, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lang", "en")

	resp, err := p.client.get(ctx, fmt.Sprintf("%s?%s", p.weatherURL, values.Encode()))
	if err != nil {
		return weather.CurrentWeather{}, fmt.Errorf("current weather for %q: %w", city, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Name    string           `json:"name"`
		Main    mainBlock        `json:"main"`
		Weather []conditionBlock `json:"weather"`
		Wind    struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentWeather{}, fmt.Errorf("decode current weather for %q: %w", city, err)
	}

	current := weather.CurrentWeather{
		City:        payload.Name,
		Latitude:    payload.Coord.Lat,
		Longitude:   payload.Coord.Lon,
		Temperature: payload.Main.Temp,
		TempMin:     payload.Main.TempMin,
		TempMax:     payload.Main.TempMax,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
	}
	if len(payload.Weather) > 0 {
		current.Description = payload.Weather[0].Description
		current.Icon = payload.Weather[0].Icon
	}
	return current, nil
}

// Forecast fetches the 3-hourly sample series for the given coordinates and
// returns the samples plus the provider's display name for the location.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, lat, lon float64) ([]weather.ForecastSample, string, error) {
	if p.apiKey == "" {
		return nil, "", fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lang", "en")

	resp, err := p.client.get(ctx, fmt.Sprintf("%s?%s", p.forecastURL, values.Encode()))
	if err != nil {
		return nil, "", fmt.Errorf("forecast for (%.2f, %.2f): %w", lat, lon, err)
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt      int64            `json:"dt"`
			Main    mainBlock        `json:"main"`
			Weather []conditionBlock `json:"weather"`
			Pop     *float64         `json:"pop"`
		} `json:"list"`
		City struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("decode forecast for (%.2f, %.2f): %w", lat, lon, err)
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, entry := range payload.List {
		s := weather.ForecastSample{
			Timestamp:     time.Unix(entry.Dt, 0).UTC(),
			Temperature:   entry.Main.Temp,
			TempMin:       entry.Main.TempMin,
			TempMax:       entry.Main.TempMax,
			FeelsLike:     entry.Main.FeelsLike,
			Humidity:      entry.Main.Humidity,
			Pressure:      entry.Main.Pressure,
			Precipitation: entry.Pop,
		}
		if len(entry.Weather) > 0 {
			s.Description = entry.Weather[0].Description
			s.Icon = entry.Weather[0].Icon
		}
		samples = append(samples, s)
	}

	name := payload.City.Name
	if name != "" && payload.City.Country != "" {
		name = fmt.Sprintf("%s, %s", payload.City.Name, payload.City.Country)
	}
	return samples, name, nil
}

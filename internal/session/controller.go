// Package session owns the live weather session: which city is active,
// its current weather and forecast, and the saved-city list with per-city
// weather summaries.
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"weather-session/internal/location"
	"weather-session/internal/store"
	"weather-session/internal/weather"
)

// WeatherFetcher fetches the current reading for a city by name.
type WeatherFetcher interface {
	CurrentWeather(ctx context.Context, city string) (weather.CurrentWeather, error)
}

// ForecastFetcher fetches the 3-hourly sample series for coordinates,
// returning the samples and the provider's display name for the location.
type ForecastFetcher interface {
	Forecast(ctx context.Context, lat, lon float64) ([]weather.ForecastSample, string, error)
}

// Config collects the controller's collaborators.
type Config struct {
	Weather  WeatherFetcher
	Forecast ForecastFetcher
	Cities   store.CityListStore
	LastCity store.LastCityStore

	// Location is optional; without it no city is ever auto-detected.
	Location location.Provider

	// Zone is the calendar zone for daily aggregation. Defaults to
	// time.Local.
	Zone *time.Location

	// FetchTimeout bounds each outbound fetch. Defaults to 10s.
	FetchTimeout time.Duration
}

// Controller is the single owner of the session state. Every mutation,
// including fetch completions and external store notifications, happens
// under its mutex, so observers always see a consistent snapshot.
//
// Each selection mints a fetch token. Completions carry the token they
// were started with and are discarded when a newer selection has replaced
// it, so a late result can never overwrite a newer city's data.
type Controller struct {
	weatherFn  WeatherFetcher
	forecastFn ForecastFetcher
	cityStore  store.CityListStore
	lastStore  store.LastCityStore
	locations  location.Provider
	zone       *time.Location
	timeout    time.Duration

	mu         sync.Mutex
	state      State
	fetchToken uuid.UUID // current fetch generation
	loadToken  uuid.UUID // generation that owns the loading flag
	detected   string    // last city reported by the location provider
	selected   bool      // a selection (user or startup) has happened
	cities     []string
	cache      map[string]CityEntry
	subs       []func(State)

	wg sync.WaitGroup
}

func New(cfg Config) *Controller {
	zone := cfg.Zone
	if zone == nil {
		zone = time.Local
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Controller{
		weatherFn:  cfg.Weather,
		forecastFn: cfg.Forecast,
		cityStore:  cfg.Cities,
		lastStore:  cfg.LastCity,
		locations:  cfg.Location,
		zone:       zone,
		timeout:    timeout,
		cache:      make(map[string]CityEntry),
		state:      State{IsCurrentLocation: true},
	}
}

// Subscribe registers fn to receive every new state snapshot. Callbacks
// run while the controller's lock is held and must not call back into it.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until all in-flight fetches and write-throughs have
// completed. Used for graceful shutdown and deterministic tests.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Run loads the persisted city list, starts the external-change and
// location watchers, and makes the startup selection: the persisted
// last-viewed city when one exists, otherwise the first detected city.
func (c *Controller) Run(ctx context.Context) {
	cities, err := c.cityStore.Load(ctx)
	switch {
	case err == nil:
		c.mu.Lock()
		c.cities = cities
		c.mu.Unlock()
	case errors.Is(err, store.ErrNotFound):
	default:
		log.Printf("session: loading saved cities failed: %v", err)
	}

	changes, err := c.cityStore.Changes(ctx)
	if err != nil {
		log.Printf("session: watching city list changes failed: %v", err)
	} else {
		go func() {
			for list := range changes {
				c.applyExternalCities(list)
			}
		}()
	}

	last, err := c.lastStore.LastCity(ctx)
	if err == nil && last != "" {
		c.SelectCity(last)
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("session: loading last city failed: %v", err)
	}

	if c.locations != nil {
		go func() {
			for city := range c.locations.Updates(ctx) {
				c.ReconcileLocation(city)
				c.selectIfIdle(city)
			}
		}()
	}
}

// SelectCity makes name the intended active city and starts the chained
// current-weather and forecast fetches for it. The selection wins over any
// still-running fetch for a previous city, decided by call order.
func (c *Controller) SelectCity(name string) {
	c.mu.Lock()
	c.selected = true
	token := uuid.New()
	c.fetchToken = token
	c.mu.Unlock()

	c.persistLastCity(name)
	c.spawnSelect(token, name)
}

// selectIfIdle selects the detected city only when nothing has been
// selected yet; an explicit user selection always wins.
func (c *Controller) selectIfIdle(name string) {
	c.mu.Lock()
	if c.selected {
		c.mu.Unlock()
		return
	}
	c.selected = true
	token := uuid.New()
	c.fetchToken = token
	c.mu.Unlock()

	// Detected cities are not persisted as the last-viewed city; only
	// explicit selections are.
	c.spawnSelect(token, name)
}

func (c *Controller) spawnSelect(token uuid.UUID, name string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		current, err := c.weatherFn.CurrentWeather(ctx, name)

		c.mu.Lock()
		defer c.mu.Unlock()

		if token != c.fetchToken {
			// A newer selection superseded this one.
			return
		}

		if err != nil {
			log.Printf("session: current weather fetch failed for %q: %v", name, err)
			c.state.Err = err.Error()
			c.notifyLocked()
			return
		}

		c.state.City = current.City
		c.state.Current = current
		c.state.IsCurrentLocation = strings.EqualFold(current.City, c.detected)
		c.state.Err = ""
		c.addCityLocked(name)

		c.state.Loading = true
		c.loadToken = token
		c.notifyLocked()
		c.spawnForecast(token, current.Latitude, current.Longitude)
	}()
}

// FetchForecast fetches the sample series for the given coordinates under
// the current fetch generation.
func (c *Controller) FetchForecast(lat, lon float64) {
	c.mu.Lock()
	token := c.fetchToken
	if token == uuid.Nil {
		token = uuid.New()
		c.fetchToken = token
	}
	c.state.Loading = true
	c.loadToken = token
	c.notifyLocked()
	c.mu.Unlock()

	c.spawnForecast(token, lat, lon)
}

func (c *Controller) spawnForecast(token uuid.UUID, lat, lon float64) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		samples, _, err := c.forecastFn.Forecast(ctx, lat, lon)

		c.mu.Lock()
		defer c.mu.Unlock()

		// The loading flag always comes back down, even for a result
		// that is about to be discarded, unless a newer forecast has
		// taken the flag over.
		if token == c.loadToken {
			c.state.Loading = false
		}

		if token != c.fetchToken {
			log.Printf("session: discarding stale forecast result for (%.2f, %.2f)", lat, lon)
			c.notifyLocked()
			return
		}

		if err != nil {
			log.Printf("session: forecast fetch failed for (%.2f, %.2f): %v", lat, lon, err)
			c.state.Err = err.Error()
		} else {
			c.state.Samples = samples
			c.state.Hourly = weather.HourlyWindow(samples, weather.DefaultWindow)
			c.state.Daily = weather.DailyAggregates(samples, weather.DefaultWindow, c.zone)
			c.state.Err = ""
		}
		c.notifyLocked()
	}()
}

// ReconcileLocation records the detected city and recomputes whether the
// active city is the device's own location. It never triggers a fetch.
func (c *Controller) ReconcileLocation(detected string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detected = detected
	c.state.IsCurrentLocation = strings.EqualFold(c.state.City, detected)
	c.notifyLocked()
}

// RefreshCityList fetches current weather for every saved city, one
// independent fetch per city. Per-city failures mark only that city's
// entry and never touch the session error.
func (c *Controller) RefreshCityList() {
	c.mu.Lock()
	cities := append([]string(nil), c.cities...)
	for _, city := range cities {
		entry := c.cache[city]
		entry.Status = CityLoading
		entry.Err = ""
		c.cache[city] = entry
	}
	c.mu.Unlock()

	for _, city := range cities {
		city := city
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
			defer cancel()
			current, err := c.weatherFn.CurrentWeather(ctx, city)

			c.mu.Lock()
			defer c.mu.Unlock()

			if !c.trackedLocked(city) {
				// Removed while the fetch was in flight.
				return
			}
			entry := c.cache[city]
			if err != nil {
				log.Printf("session: city list fetch failed for %q: %v", city, err)
				entry.Status = CityFailed
				entry.Err = err.Error()
			} else {
				entry = CityEntry{Status: CityReady, Summary: current.Summary()}
			}
			c.cache[city] = entry
		}()
	}
}

func (c *Controller) persistLastCity(name string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if err := c.lastStore.SetLastCity(ctx, name); err != nil {
			log.Printf("session: persisting last city failed: %v", err)
		}
	}()
}

func (c *Controller) notifyLocked() {
	for _, fn := range c.subs {
		fn(c.state)
	}
}

package session

import (
	"context"
	"log"
)

// Saved-city list and city weather cache. The list is an ordered set with
// exact-match uniqueness; every local mutation writes the whole list
// through to the store, and external store changes replace it wholesale.

// Cities returns the saved-city list in insertion order.
func (c *Controller) Cities() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.cities...)
}

// CityWeather returns the cached weather summaries keyed by city name.
// Absent keys are cities whose weather has never been requested.
func (c *Controller) CityWeather() map[string]CityEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]CityEntry, len(c.cache))
	for city, entry := range c.cache {
		out[city] = entry
	}
	return out
}

// AddCity appends name to the saved-city list if it is not already there.
func (c *Controller) AddCity(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addCityLocked(name)
}

// RemoveCity deletes name from the list and drops its cache entry.
func (c *Controller) RemoveCity(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.cities[:0]
	removed := false
	for _, city := range c.cities {
		if city == name {
			removed = true
			continue
		}
		kept = append(kept, city)
	}
	if !removed {
		return
	}
	c.cities = kept
	delete(c.cache, name)
	c.persistCitiesLocked()
}

func (c *Controller) addCityLocked(name string) {
	if c.trackedLocked(name) {
		return
	}
	c.cities = append(c.cities, name)
	c.persistCitiesLocked()
}

func (c *Controller) trackedLocked(name string) bool {
	for _, city := range c.cities {
		if city == name {
			return true
		}
	}
	return false
}

// persistCitiesLocked writes the list through to the store without
// blocking the caller. A failed write is only logged: every mutation
// rewrites the full list, so the next one is the retry.
func (c *Controller) persistCitiesLocked() {
	snapshot := append([]string(nil), c.cities...)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if err := c.cityStore.Save(ctx, snapshot); err != nil {
			log.Printf("session: city list write-through failed: %v", err)
		}
	}()
}

// applyExternalCities replaces the in-memory list with one written by
// another process. Remote wins; no merge. Cache entries for cities no
// longer tracked are dropped.
func (c *Controller) applyExternalCities(cities []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cities = append([]string(nil), cities...)
	for city := range c.cache {
		if !c.trackedLocked(city) {
			delete(c.cache, city)
		}
	}
}

// Package store persists the saved-city list and the last-viewed city.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no value has been persisted yet.
var ErrNotFound = errors.New("no persisted value")

// CityListStore holds the ordered saved-city list. Changes delivers lists
// written by other processes; a store's own writes are not echoed back.
type CityListStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, cities []string) error
	Changes(ctx context.Context) (<-chan []string, error)
}

// LastCityStore holds the single most-recently-viewed city, read at startup.
type LastCityStore interface {
	LastCity(ctx context.Context) (string, error)
	SetLastCity(ctx context.Context, city string) error
}

// Package location resolves the device's configured position to a city name.
package location

import (
	"context"
	"log"
	"time"

	"github.com/kelvins/geocoder"
)

// Provider emits the detected city name, zero or more times per session.
// When detection is unavailable the channel simply never delivers and is
// closed; that is not an error.
type Provider interface {
	Updates(ctx context.Context) <-chan string
}

// GeocoderProvider reverse-geocodes a fixed position into a city name and
// re-checks it periodically. It stands in for an OS location service: the
// position comes from configuration, the name from Google's geocoding API.
type GeocoderProvider struct {
	apiKey   string
	lat, lon float64
	interval time.Duration
}

func NewGeocoderProvider(apiKey string, lat, lon float64, interval time.Duration) *GeocoderProvider {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &GeocoderProvider{apiKey: apiKey, lat: lat, lon: lon, interval: interval}
}

func (p *GeocoderProvider) Updates(ctx context.Context) <-chan string {
	out := make(chan string)

	if p.apiKey == "" || (p.lat == 0 && p.lon == 0) {
		// Treated as permission denied: no detection, not an error.
		log.Println("location: no geocoder key or position configured; detection unavailable")
		close(out)
		return out
	}

	go func() {
		defer close(out)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		var lastCity string
		for {
			city, err := p.resolve()
			if err != nil {
				log.Printf("location: reverse geocoding failed: %v", err)
			} else if city != "" && city != lastCity {
				select {
				case out <- city:
					lastCity = city
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out
}

func (p *GeocoderProvider) resolve() (string, error) {
	geocoder.ApiKey = p.apiKey

	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  p.lat,
		Longitude: p.lon,
	})
	if err != nil {
		return "", err
	}

	for _, addr := range addresses {
		if addr.City != "" {
			return addr.City, nil
		}
	}
	return "", nil
}

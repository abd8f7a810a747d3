package store

import (
	"context"
	"sync"
)

// MemoryStore is a concurrency-safe in-memory implementation of
// CityListStore and LastCityStore, used in tests and when no redis URL
// is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	cities   []string
	hasList  bool
	lastCity string
	hasLast  bool
	subs     []chan []string

	// SaveErr, when set, makes Save fail. Test hook for the
	// write-through failure path.
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasList {
		return nil, ErrNotFound
	}
	out := make([]string, len(s.cities))
	copy(out, s.cities)
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, cities []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.cities = append([]string(nil), cities...)
	s.hasList = true
	return nil
}

func (s *MemoryStore) Changes(ctx context.Context) (<-chan []string, error) {
	ch := make(chan []string, 8)

	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				close(ch)
				break
			}
		}
		s.mu.Unlock()
	}()
	return ch, nil
}

// EmitExternalChange simulates another process rewriting the city list.
func (s *MemoryStore) EmitExternalChange(cities []string) {
	s.mu.Lock()
	s.cities = append([]string(nil), cities...)
	s.hasList = true
	subs := append([]chan []string(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub <- append([]string(nil), cities...)
	}
}

func (s *MemoryStore) LastCity(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasLast {
		return "", ErrNotFound
	}
	return s.lastCity, nil
}

func (s *MemoryStore) SetLastCity(ctx context.Context, city string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCity = city
	s.hasLast = true
	return nil
}

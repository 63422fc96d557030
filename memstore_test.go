package main

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-city-weather/internal/api/city"
	"github.com/FACorreiaa/go-city-weather/internal/types"
)

var _ city.CityRepository = (*memCityRepo)(nil)

// memCityRepo keeps cities and tokens in maps with the same uniqueness rules
// as the Postgres schema.
type memCityRepo struct {
	mu     sync.RWMutex
	cities map[string]types.City
	tokens map[string]struct{}
}

func newMemCityRepo(tokens ...string) *memCityRepo {
	r := &memCityRepo{
		cities: make(map[string]types.City),
		tokens: make(map[string]struct{}),
	}
	for _, t := range tokens {
		r.tokens[t] = struct{}{}
	}
	return r
}

func (r *memCityRepo) GetCities(context.Context) ([]types.City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.City, 0, len(r.cities))
	for _, c := range r.cities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCityRepo) GetCityNames(ctx context.Context) ([]string, error) {
	cities, _ := r.GetCities(ctx)
	names := make([]string, len(cities))
	for i, c := range cities {
		names[i] = c.Name
	}
	return names, nil
}

func (r *memCityRepo) GetCoordsByCity(_ context.Context, name string) (types.Coordinates, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cities[name]
	if !ok {
		return types.Coordinates{}, fmt.Errorf("coords for %q: %w", name, types.ErrCityNotFound)
	}
	return types.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}, nil
}

func (r *memCityRepo) AddCity(_ context.Context, c types.City) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cities[c.Name]; ok {
		return false, types.ErrCityExists
	}
	c.ID = uuid.New()
	r.cities[c.Name] = c
	return true, nil
}

func (r *memCityRepo) DeleteCity(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cities[name]; !ok {
		return false, nil
	}
	delete(r.cities, name)
	return true, nil
}

func (r *memCityRepo) UpdateCity(_ context.Context, name string, patch types.CityPatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cities[name]
	if !ok {
		return false, nil
	}
	if patch.Name != nil && *patch.Name != name {
		if _, taken := r.cities[*patch.Name]; taken {
			return false, types.ErrCityExists
		}
		delete(r.cities, name)
		c.Name = *patch.Name
	}
	if patch.Latitude != nil {
		c.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		c.Longitude = *patch.Longitude
	}
	r.cities[c.Name] = c
	return true, nil
}

func (r *memCityRepo) CityExists(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cities[name]
	return ok, nil
}

func (r *memCityRepo) TokenExists(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tokens[token]
	return ok, nil
}

func (r *memCityRepo) AddToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = struct{}{}
	return nil
}

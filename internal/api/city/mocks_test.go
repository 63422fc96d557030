package city

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/go-city-weather/internal/types"
)

// MockCityService is a mock implementation of the Service interface
type MockCityService struct {
	mock.Mock
}

func (m *MockCityService) ListCities(ctx context.Context) ([]types.City, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.City), args.Error(1)
}

func (m *MockCityService) ListCityNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCityService) GetWeather(ctx context.Context, cityName string) (types.WeatherSnapshot, error) {
	args := m.Called(ctx, cityName)
	return args.Get(0).(types.WeatherSnapshot), args.Error(1)
}

func (m *MockCityService) CityExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityService) CreateCity(ctx context.Context, city types.City) error {
	args := m.Called(ctx, city)
	return args.Error(0)
}

func (m *MockCityService) UpdateCity(ctx context.Context, name string, patch types.CityPatch) error {
	args := m.Called(ctx, name, patch)
	return args.Error(0)
}

func (m *MockCityService) DeleteCity(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockCityRepository is a mock implementation of the CityRepository interface
type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) GetCities(ctx context.Context) ([]types.City, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.City), args.Error(1)
}

func (m *MockCityRepository) GetCityNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCityRepository) GetCoordsByCity(ctx context.Context, name string) (types.Coordinates, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(types.Coordinates), args.Error(1)
}

func (m *MockCityRepository) AddCity(ctx context.Context, city types.City) (bool, error) {
	args := m.Called(ctx, city)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityRepository) DeleteCity(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityRepository) UpdateCity(ctx context.Context, name string, patch types.CityPatch) (bool, error) {
	args := m.Called(ctx, name, patch)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityRepository) CityExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityRepository) TokenExists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityRepository) AddToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockWeatherClient is a mock implementation of weather.Client
type MockWeatherClient struct {
	mock.Mock
}

func (m *MockWeatherClient) GetWeather(ctx context.Context, coords types.Coordinates) (types.WeatherFact, error) {
	args := m.Called(ctx, coords)
	return args.Get(0).(types.WeatherFact), args.Error(1)
}

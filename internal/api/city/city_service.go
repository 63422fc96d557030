package city

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-city-weather/app/observability/metrics"
	"github.com/FACorreiaa/go-city-weather/internal/api/weather"
	"github.com/FACorreiaa/go-city-weather/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for cities and their weather.
type Service interface {
	ListCities(ctx context.Context) ([]types.City, error)
	ListCityNames(ctx context.Context) ([]string, error)
	GetWeather(ctx context.Context, cityName string) (types.WeatherSnapshot, error)

	CityExists(ctx context.Context, name string) (bool, error)
	// CreateCity returns types.ErrCityExists for a taken name and
	// types.ErrNotModified when the insert affected no row.
	CreateCity(ctx context.Context, city types.City) error
	// UpdateCity returns types.ErrCityExists when a rename collides and
	// types.ErrNotModified when no row matched.
	UpdateCity(ctx context.Context, name string, patch types.CityPatch) error
	// DeleteCity returns types.ErrCityNotFound when nothing was deleted.
	DeleteCity(ctx context.Context, name string) error
}

type ServiceImpl struct {
	logger  *slog.Logger
	repo    CityRepository
	weather weather.Client
}

func NewCityService(repo CityRepository, weatherClient weather.Client, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		weather: weatherClient,
	}
}

func (s *ServiceImpl) ListCities(ctx context.Context) ([]types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "ListCities")
	defer span.End()

	cities, err := s.repo.GetCities(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list cities")
		return nil, fmt.Errorf("error listing cities: %w", err)
	}
	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	return cities, nil
}

func (s *ServiceImpl) ListCityNames(ctx context.Context) ([]string, error) {
	names, err := s.repo.GetCityNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing city names: %w", err)
	}
	return names, nil
}

// GetWeather resolves the city's coordinates and asks the provider for the
// current conditions there.
func (s *ServiceImpl) GetWeather(ctx context.Context, cityName string) (types.WeatherSnapshot, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetWeather")
	defer span.End()
	span.SetAttributes(attribute.String("city.name", cityName))

	l := s.logger.With(slog.String("method", "GetWeather"), slog.String("city", cityName))

	coords, err := s.repo.GetCoordsByCity(ctx, cityName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to resolve coordinates")
		return types.WeatherSnapshot{}, err
	}

	fact, err := s.weather.GetWeather(ctx, coords)
	if err != nil {
		l.ErrorContext(ctx, "Weather lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Weather lookup failed")
		return types.WeatherSnapshot{}, fmt.Errorf("%w for %q: %w", types.ErrWeatherUnavailable, cityName, err)
	}

	return types.WeatherSnapshot{City: cityName, WeatherFact: fact}, nil
}

func (s *ServiceImpl) CityExists(ctx context.Context, name string) (bool, error) {
	exists, err := s.repo.CityExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("error checking city %q: %w", name, err)
	}
	return exists, nil
}

func (s *ServiceImpl) CreateCity(ctx context.Context, city types.City) (err error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "CreateCity")
	defer span.End()
	defer func() { s.countMutation(ctx, "create", err) }()

	l := s.logger.With(slog.String("method", "CreateCity"), slog.String("city", city.Name))

	ok, err := s.repo.AddCity(ctx, city)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !ok {
		l.ErrorContext(ctx, "Insert affected no rows")
		return fmt.Errorf("insert city %q: %w", city.Name, types.ErrNotModified)
	}
	l.InfoContext(ctx, "City created")
	return nil
}

func (s *ServiceImpl) UpdateCity(ctx context.Context, name string, patch types.CityPatch) (err error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "UpdateCity")
	defer span.End()
	defer func() { s.countMutation(ctx, "update", err) }()

	l := s.logger.With(slog.String("method", "UpdateCity"), slog.String("city", name))

	ok, err := s.repo.UpdateCity(ctx, name, patch)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !ok {
		l.ErrorContext(ctx, "Update affected no rows")
		return fmt.Errorf("update city %q: %w", name, types.ErrNotModified)
	}
	l.InfoContext(ctx, "City updated")
	return nil
}

func (s *ServiceImpl) DeleteCity(ctx context.Context, name string) (err error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "DeleteCity")
	defer span.End()
	defer func() { s.countMutation(ctx, "delete", err) }()

	ok, err := s.repo.DeleteCity(ctx, name)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !ok {
		return fmt.Errorf("delete city %q: %w", name, types.ErrCityNotFound)
	}
	s.logger.InfoContext(ctx, "City deleted", slog.String("city", name))
	return nil
}

func (s *ServiceImpl) countMutation(ctx context.Context, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.Get().CityMutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}

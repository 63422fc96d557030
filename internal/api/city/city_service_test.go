package city

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-city-weather/internal/api/weather"
	"github.com/FACorreiaa/go-city-weather/internal/types"
)

func newTestService() (*ServiceImpl, *MockCityRepository, *MockWeatherClient) {
	repo := new(MockCityRepository)
	client := new(MockWeatherClient)
	return NewCityService(repo, client, slog.Default()), repo, client
}

func TestGetWeather(t *testing.T) {
	ctx := context.Background()
	moscow := types.Coordinates{Latitude: 55.75, Longitude: 37.62}

	t.Run("Success", func(t *testing.T) {
		svc, repo, client := newTestService()
		repo.On("GetCoordsByCity", mock.Anything, "Moscow").Return(moscow, nil).Once()
		client.On("GetWeather", mock.Anything, moscow).
			Return(types.WeatherFact{Temp: 3, FeelsLike: -1, WindSpeed: 2}, nil).Once()

		snap, err := svc.GetWeather(ctx, "Moscow")
		require.NoError(t, err)
		assert.Equal(t, "Moscow", snap.City)
		assert.Equal(t, 3.0, snap.Temp)
		repo.AssertExpectations(t)
		client.AssertExpectations(t)
	})

	t.Run("UnknownCitySkipsProvider", func(t *testing.T) {
		svc, repo, client := newTestService()
		repo.On("GetCoordsByCity", mock.Anything, "Atlantis").
			Return(types.Coordinates{}, types.ErrCityNotFound).Once()

		_, err := svc.GetWeather(ctx, "Atlantis")
		assert.ErrorIs(t, err, types.ErrCityNotFound)
		client.AssertNotCalled(t, "GetWeather", mock.Anything, mock.Anything)
	})

	t.Run("ProviderErrorKeepsCause", func(t *testing.T) {
		svc, repo, client := newTestService()
		apiErr := &weather.ForeignAPIError{API: weather.ProviderName, StatusCode: 500}
		repo.On("GetCoordsByCity", mock.Anything, "Moscow").Return(moscow, nil).Once()
		client.On("GetWeather", mock.Anything, moscow).Return(types.WeatherFact{}, apiErr).Once()

		_, err := svc.GetWeather(ctx, "Moscow")
		assert.ErrorIs(t, err, types.ErrWeatherUnavailable)

		var target *weather.ForeignAPIError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 500, target.StatusCode)
	})
}

func TestCreateCity(t *testing.T) {
	ctx := context.Background()
	city := types.City{Name: "Kazan", Latitude: 55.79, Longitude: 49.12}

	t.Run("Success", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("AddCity", mock.Anything, city).Return(true, nil).Once()

		require.NoError(t, svc.CreateCity(ctx, city))
		repo.AssertExpectations(t)
	})

	t.Run("NoRowsAffected", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("AddCity", mock.Anything, city).Return(false, nil).Once()

		assert.ErrorIs(t, svc.CreateCity(ctx, city), types.ErrNotModified)
	})

	t.Run("Duplicate", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("AddCity", mock.Anything, city).Return(false, types.ErrCityExists).Once()

		assert.ErrorIs(t, svc.CreateCity(ctx, city), types.ErrCityExists)
	})
}

func TestServiceUpdateCity(t *testing.T) {
	ctx := context.Background()
	patch := types.CityPatch{Longitude: fPtr(49.2)}

	t.Run("Success", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("UpdateCity", mock.Anything, "Kazan", patch).Return(true, nil).Once()

		require.NoError(t, svc.UpdateCity(ctx, "Kazan", patch))
		repo.AssertExpectations(t)
	})

	t.Run("NoRowsAffected", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("UpdateCity", mock.Anything, "Kazan", patch).Return(false, nil).Once()

		assert.ErrorIs(t, svc.UpdateCity(ctx, "Kazan", patch), types.ErrNotModified)
	})
}

func TestServiceDeleteCity(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("DeleteCity", mock.Anything, "Kazan").Return(true, nil).Once()

		require.NoError(t, svc.DeleteCity(ctx, "Kazan"))
	})

	t.Run("Absent", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("DeleteCity", mock.Anything, "Atlantis").Return(false, nil).Once()

		assert.ErrorIs(t, svc.DeleteCity(ctx, "Atlantis"), types.ErrCityNotFound)
	})

	t.Run("DatabaseError", func(t *testing.T) {
		svc, repo, _ := newTestService()
		dbErr := errors.New("conn reset")
		repo.On("DeleteCity", mock.Anything, "Kazan").Return(false, dbErr).Once()

		err := svc.DeleteCity(ctx, "Kazan")
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, types.ErrCityNotFound)
	})
}

func TestListCities(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("GetCities", mock.Anything).Return(nil, errors.New("db down")).Once()

	_, err := svc.ListCities(context.Background())
	assert.Error(t, err)
	repo.AssertExpectations(t)
}

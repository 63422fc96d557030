package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-city-weather/app/db"
	appMiddleware "github.com/FACorreiaa/go-city-weather/app/middleware"
	"github.com/FACorreiaa/go-city-weather/config"
	"github.com/FACorreiaa/go-city-weather/internal/api/city"
	"github.com/FACorreiaa/go-city-weather/internal/api/weather"
	"github.com/FACorreiaa/go-city-weather/internal/views"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *slog.Logger
	Pool          *pgxpool.Pool
	CityRepo      *city.PostgresCityRepository
	CityHandler   *city.HandlerImpl
	RequireAPIKey func(http.Handler) http.Handler
}

// NewContainer migrates the database, opens the pool and wires the city
// repository, weather client, service and handler together.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	// Run migrations *before* initializing the main pool
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	c, err := newWithPool(cfg, pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

func newWithPool(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (*Container, error) {
	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	cityRepo := city.NewCityRepository(pool, logger)
	weatherClient := weather.NewYandexClient(weather.Config{
		URL:      cfg.Weather.URL,
		APIKey:   cfg.Weather.APIKey,
		Timeout:  cfg.Weather.Timeout,
		CacheTTL: cfg.Weather.CacheTTL,
	}, nil, logger)
	cityService := city.NewCityService(cityRepo, weatherClient, logger)
	cityHandler := city.NewCityHandler(cityService, renderer, logger)

	return &Container{
		Config:        cfg,
		Logger:        logger,
		Pool:          pool,
		CityRepo:      cityRepo,
		CityHandler:   cityHandler,
		RequireAPIKey: appMiddleware.RequireAPIKey(cityRepo, cfg.Auth.Header, logger),
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// SeedTokens stores the configured bootstrap API tokens. Existing tokens are kept.
func (c *Container) SeedTokens(ctx context.Context) error {
	var errs []error
	seeded := 0
	for _, token := range c.Config.Auth.BootstrapTokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if err := c.CityRepo.AddToken(ctx, token); err != nil {
			errs = append(errs, err)
			continue
		}
		seeded++
	}
	if seeded > 0 {
		c.Logger.InfoContext(ctx, "Bootstrap API tokens stored", slog.Int("count", seeded))
	}
	return errors.Join(errs...)
}

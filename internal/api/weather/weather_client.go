package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-city-weather/app/observability/metrics"
	"github.com/FACorreiaa/go-city-weather/internal/types"
)

const (
	ProviderName   = "YANDEX.Weather"
	APIKeyHeader   = "X-Yandex-API-Key"
	DefaultURL     = "https://api.weather.yandex.ru/v2/forecast"
	DefaultTimeout = 8 * time.Second
)

var _ Client = (*YandexClient)(nil)

// Client fetches current conditions for a point.
type Client interface {
	GetWeather(ctx context.Context, coords types.Coordinates) (types.WeatherFact, error)
}

// ForeignAPIError is returned when the provider answers with a non-200 status.
type ForeignAPIError struct {
	API        string
	StatusCode int
}

func (e *ForeignAPIError) Error() string {
	return fmt.Sprintf("API %s failed with status code %d", e.API, e.StatusCode)
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	// CacheTTL keeps facts per coordinate pair for this long. Zero disables caching.
	CacheTTL time.Duration
}

type YandexClient struct {
	logger     *slog.Logger
	url        string
	apiKey     string
	httpClient *http.Client
	cache      *cache.Cache
}

// NewYandexClient builds a client with an instrumented transport. A nil
// httpClient gets one with cfg.Timeout.
func NewYandexClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *YandexClient {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	c := &YandexClient{
		logger:     logger,
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

// forecastResponse is the part of the provider payload the app reads.
type forecastResponse struct {
	Fact *types.WeatherFact `json:"fact"`
}

func cacheKey(coords types.Coordinates) string {
	return strconv.FormatFloat(coords.Latitude, 'f', -1, 64) + ":" + strconv.FormatFloat(coords.Longitude, 'f', -1, 64)
}

func (c *YandexClient) GetWeather(ctx context.Context, coords types.Coordinates) (fact types.WeatherFact, err error) {
	ctx, span := otel.Tracer("WeatherClient").Start(ctx, "GetWeather")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("weather.lat", coords.Latitude),
		attribute.Float64("weather.lon", coords.Longitude),
	)

	l := c.logger.With(slog.String("method", "GetWeather"), slog.Float64("lat", coords.Latitude), slog.Float64("lon", coords.Longitude))
	m := metrics.Get()

	key := cacheKey(coords)
	if c.cache != nil {
		if cached, found := c.cache.Get(key); found {
			l.DebugContext(ctx, "Weather served from cache")
			m.WeatherCacheHitsTotal.Add(ctx, 1)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached.(types.WeatherFact), nil
		}
	}

	start := time.Now()
	status := 0
	defer func() {
		attrs := metric.WithAttributes(attribute.Int("status", status))
		m.WeatherRequestsTotal.Add(ctx, 1, attrs)
		m.WeatherDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+params.Encode(), nil)
	if err != nil {
		return types.WeatherFact{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(APIKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.WeatherFact{}, fmt.Errorf("failed to call %s: %w", ProviderName, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		l.WarnContext(ctx, "Weather provider returned an error", slog.Int("status", resp.StatusCode))
		_, _ = io.Copy(io.Discard, resp.Body)
		return types.WeatherFact{}, &ForeignAPIError{API: ProviderName, StatusCode: resp.StatusCode}
	}

	var body forecastResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.WeatherFact{}, fmt.Errorf("failed to parse %s response: %w", ProviderName, err)
	}
	if body.Fact == nil {
		return types.WeatherFact{}, errors.New("weather response has no fact section")
	}

	if c.cache != nil {
		c.cache.Set(key, *body.Fact, cache.DefaultExpiration)
	}
	l.DebugContext(ctx, "Weather fetched", slog.Float64("temp", body.Fact.Temp))
	return *body.Fact, nil
}

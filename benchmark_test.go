package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-chi/chi/v5"

	appMiddleware "github.com/FACorreiaa/go-city-weather/app/middleware"
	"github.com/FACorreiaa/go-city-weather/internal/api/city"
	"github.com/FACorreiaa/go-city-weather/internal/api/weather"
	"github.com/FACorreiaa/go-city-weather/internal/router"
	"github.com/FACorreiaa/go-city-weather/internal/types"
	"github.com/FACorreiaa/go-city-weather/internal/views"
)

const benchToken = "benchmark-token"

// BenchmarkSuite provides benchmark testing for the page and city routes
type BenchmarkSuite struct {
	router   *chi.Mux
	provider *httptest.Server
}

// setupBenchmarkSuite builds the full mux over an in-memory store seeded
// with a few cities. Weather answers are cached so the provider is hit once.
func setupBenchmarkSuite(b *testing.B) *BenchmarkSuite {
	b.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"fact": {"temp": 12, "feels_like": 10, "wind_speed": 3}}`)
	}))

	repo := newMemCityRepo(benchToken)
	_, _ = repo.AddCity(context.Background(), types.City{Name: "Bench City", Latitude: 10, Longitude: 20})
	for range 50 {
		// Duplicate fake names are skipped by the store.
		_, _ = repo.AddCity(context.Background(), types.City{
			Name:      gofakeit.City(),
			Latitude:  gofakeit.Latitude(),
			Longitude: gofakeit.Longitude(),
		})
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		b.Fatal(err)
	}
	client := weather.NewYandexClient(weather.Config{
		URL:      provider.URL,
		Timeout:  time.Second,
		CacheTTL: time.Minute,
	}, nil, logger)
	svc := city.NewCityService(repo, client, logger)

	mux := newMux(&router.Config{
		CityHandler:   city.NewCityHandler(svc, renderer, logger),
		RequireAPIKey: appMiddleware.RequireAPIKey(repo, "WEATHER_API_KEY", logger),
	}, 5*time.Second, logger)

	b.Cleanup(provider.Close)
	return &BenchmarkSuite{router: mux, provider: provider}
}

func (suite *BenchmarkSuite) serve(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("WEATHER_API_KEY", benchToken)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func BenchmarkMainPage(b *testing.B) {
	suite := setupBenchmarkSuite(b)

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		suite.serve(http.MethodGet, "/", "")
	}
}

func BenchmarkCitiesPage(b *testing.B) {
	suite := setupBenchmarkSuite(b)

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		suite.serve(http.MethodGet, "/cities", "")
	}
}

func BenchmarkWeatherPageCached(b *testing.B) {
	suite := setupBenchmarkSuite(b)
	if w := suite.serve(http.MethodGet, "/weather?city=Bench%20City", ""); w.Code != http.StatusOK {
		b.Fatalf("warm-up request failed with status %d", w.Code)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		suite.serve(http.MethodGet, "/weather?city=Bench%20City", "")
	}
}

func BenchmarkCreateCity(b *testing.B) {
	suite := setupBenchmarkSuite(b)

	b.ResetTimer()
	b.ReportAllocs()
	i := 0
	for b.Loop() {
		suite.serve(http.MethodPost, "/cities", fmt.Sprintf(`{"name": "%s %d", "latitude": %f, "longitude": %f}`,
			gofakeit.City(), i, gofakeit.Latitude(), gofakeit.Longitude()))
		i++
	}
}

func BenchmarkConcurrentRequests(b *testing.B) {
	suite := setupBenchmarkSuite(b)

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			suite.serve(http.MethodGet, "/cities", "")
		}
	})
}

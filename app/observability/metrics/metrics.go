package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// MeterName identifies the instruments registered by this service.
const MeterName = "CityWeather"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	CityMutationsTotal     metric.Int64Counter
	WeatherRequestsTotal   metric.Int64Counter
	WeatherCacheHitsTotal  metric.Int64Counter
	WeatherDurationSeconds metric.Float64Histogram
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider, so it should
// run after the provider is installed.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter(MeterName)
		var err error
		m := &AppMetrics{}

		m.CityMutationsTotal, err = meter.Int64Counter(
			"city_mutations_total",
			metric.WithDescription("Total number of city insert, update and delete requests by outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create city_mutations_total: %v", err)
		}

		m.WeatherRequestsTotal, err = meter.Int64Counter(
			"weather_requests_total",
			metric.WithDescription("Total number of calls to the weather provider by status"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_requests_total: %v", err)
		}

		m.WeatherCacheHitsTotal, err = meter.Int64Counter(
			"weather_cache_hits_total",
			metric.WithDescription("Total number of weather lookups served from cache"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_cache_hits_total: %v", err)
		}

		m.WeatherDurationSeconds, err = meter.Float64Histogram(
			"weather_request_duration_seconds",
			metric.WithDescription("Duration of weather provider calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_request_duration_seconds: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the global AppMetrics instance, initializing it against the
// current MeterProvider on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

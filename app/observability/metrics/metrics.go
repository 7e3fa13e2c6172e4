package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GenerationRequestsTotal  metric.Int64Counter
	GenerationFallbacksTotal metric.Int64Counter
	GenerationDuration       metric.Float64Histogram
	CacheLookupsTotal        metric.Int64Counter
	SessionsStartedTotal     metric.Int64Counter
	DbQueryDurationSeconds   metric.Float64Histogram
	DbQueryErrorsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once, from the global MeterProvider.
// Call it after the provider is installed or the instruments stay no-op.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("HotelConcierge")
		var err error
		m := &AppMetrics{}

		m.GenerationRequestsTotal, err = meter.Int64Counter(
			"generation_requests_total",
			metric.WithDescription("Generation calls by generator and outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_requests_total: %v", err)
		}

		m.GenerationFallbacksTotal, err = meter.Int64Counter(
			"generation_fallbacks_total",
			metric.WithDescription("Generator results replaced by a fallback, by reason"),
			metric.WithUnit("{fallback}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_fallbacks_total: %v", err)
		}

		m.GenerationDuration, err = meter.Float64Histogram(
			"generation_duration_seconds",
			metric.WithDescription("Latency of generation calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_duration_seconds: %v", err)
		}

		m.CacheLookupsTotal, err = meter.Int64Counter(
			"content_cache_lookups_total",
			metric.WithDescription("Content cache lookups by cache and result"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create content_cache_lookups_total: %v", err)
		}

		m.SessionsStartedTotal, err = meter.Int64Counter(
			"sessions_started_total",
			metric.WithDescription("Guest sessions started, by trip status"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create sessions_started_total: %v", err)
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

		appMetrics = m
	})
}

// Get returns the shared instruments, creating them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

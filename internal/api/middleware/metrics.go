package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/sunalert/sunalert/internal/api/middleware"

// Metrics holds the OpenTelemetry metrics instruments.
type Metrics struct {
	requestDuration  metric.Float64Histogram
	requestTotal     metric.Int64Counter
	requestsInFlight metric.Int64UpDownCounter
	responseSize     metric.Int64Histogram
}

// NewMetrics creates a new Metrics instance with initialized instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of HTTP server requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP server requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestsInFlight, err := meter.Int64UpDownCounter(
		"http.server.requests_in_flight",
		metric.WithDescription("Number of HTTP requests currently being processed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	responseSize, err := meter.Int64Histogram(
		"http.server.response.size",
		metric.WithDescription("Size of HTTP server responses in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		requestsInFlight: requestsInFlight,
		responseSize:     responseSize,
	}, nil
}

// Middleware returns an HTTP middleware that records metrics for each request.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Track request in flight
			attrs := []attribute.KeyValue{
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
			}
			m.requestsInFlight.Add(r.Context(), 1, metric.WithAttributes(attrs...))
			defer m.requestsInFlight.Add(r.Context(), -1, metric.WithAttributes(attrs...))

			// Wrap response writer
			wrapped := newMetricsResponseWriter(w)

			// Process request
			next.ServeHTTP(wrapped, r)

			// Calculate duration
			duration := time.Since(start).Seconds()

			// Build attributes with status code
			attrs = append(attrs, attribute.String("http.status_code", strconv.Itoa(wrapped.statusCode)))

			// Add error attribute for 4xx/5xx responses
			if wrapped.statusCode >= 400 {
				attrs = append(attrs, attribute.Bool("error", true))
			}

			// Record metrics
			m.requestDuration.Record(r.Context(), duration, metric.WithAttributes(attrs...))
			m.requestTotal.Add(r.Context(), 1, metric.WithAttributes(attrs...))
			m.responseSize.Record(r.Context(), wrapped.written, metric.WithAttributes(attrs...))
		})
	}
}

// metricsResponseWriter wraps http.ResponseWriter to capture response metadata.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// ScheduleMetrics holds metrics for delivery operations and solar cache lookups.
type ScheduleMetrics struct {
	rescheduleDuration metric.Float64Histogram
	rescheduleTotal    metric.Int64Counter
	submittedTotal     metric.Int64Counter
	solarCacheHits     metric.Int64Counter
	solarCacheMisses   metric.Int64Counter
}

// NewScheduleMetrics creates metrics for monitoring reschedule runs.
func NewScheduleMetrics() (*ScheduleMetrics, error) {
	meter := otel.Meter(meterName)

	rescheduleDuration, err := meter.Float64Histogram(
		"schedule.reschedule.duration",
		metric.WithDescription("Duration of reschedule runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rescheduleTotal, err := meter.Int64Counter(
		"schedule.reschedule.total",
		metric.WithDescription("Total number of reschedule runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	submittedTotal, err := meter.Int64Counter(
		"schedule.notifications.submitted",
		metric.WithDescription("Total number of notification requests submitted"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	solarCacheHits, err := meter.Int64Counter(
		"solar.cache.hit",
		metric.WithDescription("Number of solar time cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	solarCacheMisses, err := meter.Int64Counter(
		"solar.cache.miss",
		metric.WithDescription("Number of solar time cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	return &ScheduleMetrics{
		rescheduleDuration: rescheduleDuration,
		rescheduleTotal:    rescheduleTotal,
		submittedTotal:     submittedTotal,
		solarCacheHits:     solarCacheHits,
		solarCacheMisses:   solarCacheMisses,
	}, nil
}

// RecordReschedule records metrics for a completed reschedule run.
func (m *ScheduleMetrics) RecordReschedule(trigger string, duration time.Duration, submitted int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("schedule.trigger", trigger),
	}

	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// Use background context for metrics to avoid context cancellation issues
	ctx := context.TODO()
	m.rescheduleDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.rescheduleTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.submittedTotal.Add(ctx, int64(submitted), metric.WithAttributes(attrs...))
}

// RecordSolarCacheHit records a solar time cache hit.
func (m *ScheduleMetrics) RecordSolarCacheHit() {
	m.solarCacheHits.Add(context.TODO(), 1)
}

// RecordSolarCacheMiss records a solar time cache miss.
func (m *ScheduleMetrics) RecordSolarCacheMiss() {
	m.solarCacheMisses.Add(context.TODO(), 1)
}

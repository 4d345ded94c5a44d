package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type handlerMetrics struct {
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	snapshotItems  prometheus.Gauge
}

func newHandlerMetrics(reg prometheus.Registerer) (*handlerMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_console_requests_total",
			Help: "Total number of requests to the inventory console",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_console_request_duration_seconds",
			Help:    "Duration of inventory console requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// p50, p90, p95, p99
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "inventory_console_request_duration_summary",
			Help: "Summary of request durations with percentiles",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	snapshotItems := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_console_snapshot_items",
			Help: "Number of items in the last fetched snapshot",
		},
	)

	m := &handlerMetrics{}
	for _, c := range []struct {
		collector prometheus.Collector
		assign    func(prometheus.Collector)
	}{
		{requestCounter, func(c prometheus.Collector) { m.requestCounter = c.(*prometheus.CounterVec) }},
		{requestLatency, func(c prometheus.Collector) { m.requestLatency = c.(*prometheus.HistogramVec) }},
		{requestSummary, func(c prometheus.Collector) { m.requestSummary = c.(*prometheus.SummaryVec) }},
		{snapshotItems, func(c prometheus.Collector) { m.snapshotItems = c.(prometheus.Gauge) }},
	} {
		if err := reg.Register(c.collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, fmt.Errorf("failed to register console metrics: %w", err)
			}
			c.assign(already.ExistingCollector)
			continue
		}
		c.assign(c.collector)
	}
	return m, nil
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps the event stream working through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *ConsoleHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.metrics.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.metrics.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.metrics.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

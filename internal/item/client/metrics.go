package client

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type clientMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &clientMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_console_upstream_requests_total",
				Help: "Total number of requests sent to the item service",
			},
			[]string{"operation", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventory_console_upstream_request_duration_seconds",
				Help:    "Duration of item service requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	requests, err := register(reg, m.requests)
	if err != nil {
		return nil, err
	}
	latency, err := register(reg, m.latency)
	if err != nil {
		return nil, err
	}
	m.requests = requests.(*prometheus.CounterVec)
	m.latency = latency.(*prometheus.HistogramVec)
	return m, nil
}

// register tolerates a collector that is already registered and hands back the existing one
func register(reg prometheus.Registerer, c prometheus.Collector) (prometheus.Collector, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector, nil
		}
		return nil, fmt.Errorf("failed to register client metrics: %w", err)
	}
	return c, nil
}

func (m *clientMetrics) observe(op string, status int, err error, d time.Duration) {
	label := strconv.Itoa(status)
	if status == 0 && err != nil {
		label = "error"
	}
	m.requests.WithLabelValues(op, label).Inc()
	m.latency.WithLabelValues(op).Observe(d.Seconds())
}

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/inventory-console/pkg/logger"
)

// Pinger probes the upstream item service
type Pinger interface {
	Ping(ctx context.Context) error
	BaseURL() string
}

// UpstreamHealth represents the health status of the item service
type UpstreamHealth struct {
	Name      string        `json:"name"`
	Status    string        `json:"status"` // healthy, unhealthy
	URL       string        `json:"url"`
	LatencyMs int64         `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// ConsoleHealth represents the overall console health
type ConsoleHealth struct {
	Service  string         `json:"service"`
	Status   string         `json:"status"` // healthy, degraded
	Upstream UpstreamHealth `json:"upstream"`
	Uptime   float64        `json:"uptime_seconds"`
}

// HealthChecker checks the console and the item service behind it
type HealthChecker struct {
	service   string
	upstream  Pinger
	timeout   time.Duration
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(service string, upstream Pinger) *HealthChecker {
	return &HealthChecker{
		service:   service,
		upstream:  upstream,
		timeout:   5 * time.Second,
		startTime: time.Now(),
	}
}

// CheckUpstream checks health of the item service
func (h *HealthChecker) CheckUpstream(ctx context.Context) UpstreamHealth {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	result := UpstreamHealth{
		Name:      "item-service",
		URL:       h.upstream.BaseURL(),
		Timestamp: start,
	}

	if err := h.upstream.Ping(ctx); err != nil {
		result.Status = "unhealthy"
		result.Error = err.Error()
		result.LatencyMs = time.Since(start).Milliseconds()
		logger.Warn(ctx).
			Str("url", result.URL).
			Str("error", result.Error).
			Msg("Upstream health check failed")
		return result
	}

	result.Status = "healthy"
	result.LatencyMs = time.Since(start).Milliseconds()
	logger.Debug(ctx).
		Str("url", result.URL).
		Int64("latency_ms", result.LatencyMs).
		Msg("Upstream health check")
	return result
}

// Check reports the console as degraded when the item service is unreachable
func (h *HealthChecker) Check(ctx context.Context) ConsoleHealth {
	upstream := h.CheckUpstream(ctx)
	status := "healthy"
	if upstream.Status != "healthy" {
		status = "degraded"
	}

	return ConsoleHealth{
		Service:  h.service,
		Status:   status,
		Upstream: upstream,
		Uptime:   time.Since(h.startTime).Seconds(),
	}
}

// RegisterHealthCheck registers health check endpoint
func (h *HealthChecker) RegisterHealthCheck(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := h.Check(r.Context())
		if health.Status != "healthy" {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Item service unavailable",
				Data:    health,
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Inventory console is healthy",
			Data:    health,
		})
	}).Methods("GET")
}

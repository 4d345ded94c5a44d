package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-console/internal/item/domain"
	"github.com/tair/inventory-console/pkg/logger"
	"github.com/tair/inventory-console/pkg/observability"
)

// ItemsPath is the fixed collection path on the remote store
const ItemsPath = "/api/items"

var tracer = otel.Tracer("item-client")

// errUnreadableBody marks a 2xx response whose body could not be decoded
var errUnreadableBody = errors.New("unreadable response body")

// UpstreamError is returned when the remote store answers with a non-2xx status
type UpstreamError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is an upstream 404
func IsNotFound(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound
}

// Config holds the settings for the item service client
type Config struct {
	BaseURL string
	// Timeout of zero leaves requests unbounded
	Timeout    time.Duration
	Registerer prometheus.Registerer
	Transport  http.RoundTripper
}

// ItemServiceClient talks to the remote item collection over REST
type ItemServiceClient struct {
	baseURL *url.URL
	client  *http.Client
	metrics *clientMetrics
}

var _ domain.ItemStore = (*ItemServiceClient)(nil)

// NewItemServiceClient creates a new REST client for the item service
func NewItemServiceClient(cfg Config) (*ItemServiceClient, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid item service url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid item service url %q: scheme must be http or https", cfg.BaseURL)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	metrics, err := newClientMetrics(cfg.Registerer)
	if err != nil {
		return nil, err
	}

	log := logger.Component("item-client")
	log.Info().
		Str("base_url", base.String()).
		Dur("timeout", cfg.Timeout).
		Msg("Item service client configured")

	return &ItemServiceClient{
		baseURL: base,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		metrics: metrics,
	}, nil
}

// BaseURL returns the configured remote store address
func (c *ItemServiceClient) BaseURL() string {
	return c.baseURL.String()
}

// List fetches every item from the remote store
func (c *ItemServiceClient) List(ctx context.Context) ([]domain.Item, error) {
	ctx, span := tracer.Start(ctx, "client.List", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var items []domain.Item
	if err := c.do(ctx, "list", http.MethodGet, ItemsPath, nil, &items); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	if items == nil {
		items = []domain.Item{}
	}

	span.SetAttributes(attribute.Int("items.count", len(items)))
	return items, nil
}

// Create sends a new item and returns the record the remote store created
func (c *ItemServiceClient) Create(ctx context.Context, item domain.NewItem) (*domain.Item, error) {
	ctx, span := tracer.Start(ctx, "client.Create",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("item.name", item.Name),
			attribute.Int("item.quantity", item.Quantity),
			attribute.String("item.category", item.Category),
			attribute.String("item.status", string(item.Status)),
		),
	)
	defer span.End()

	body, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item: %w", err)
	}

	var created domain.Item
	err = c.do(ctx, "create", http.MethodPost, ItemsPath, body, &created)
	if errors.Is(err, errUnreadableBody) {
		// the store accepted the item; only the echo is missing
		logger.Warn(ctx).Err(err).Str("name", item.Name).Msg("Item created without a readable response")
		span.AddEvent("response body not decoded")
		return &domain.Item{
			Name:     item.Name,
			Quantity: item.Quantity,
			Category: item.Category,
			Status:   item.Status,
		}, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	span.SetAttributes(attribute.String("item.id", string(created.ID)))
	return &created, nil
}

// Delete removes an item by id
func (c *ItemServiceClient) Delete(ctx context.Context, id domain.ItemID) error {
	ctx, span := tracer.Start(ctx, "client.Delete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("item.id", string(id))),
	)
	defer span.End()

	path := ItemsPath + "/" + url.PathEscape(string(id))
	if err := c.do(ctx, "delete", http.MethodDelete, path, nil, nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	return nil
}

// Ping checks that the remote collection answers
func (c *ItemServiceClient) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, ItemsPath, nil, nil)
}

func (c *ItemServiceClient) do(ctx context.Context, op, method, path string, body []byte, out interface{}) (err error) {
	timing := observability.StartServerTiming(ctx, "upstream-"+op, method+" "+path)
	defer timing.Stop()

	start := time.Now()
	status := 0
	defer func() {
		c.metrics.observe(op, status, err, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach item service: %w", err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	logger.Debug(ctx).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Item service responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &UpstreamError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", errUnreadableBody, err)
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty body", errUnreadableBody)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", errUnreadableBody, err)
	}
	return nil
}

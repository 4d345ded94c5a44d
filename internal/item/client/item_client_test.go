package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-console/internal/item/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*ItemServiceClient, *prometheus.Registry) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	c, err := NewItemServiceClient(Config{BaseURL: srv.URL + "/", Registerer: reg})
	require.NoError(t, err)
	return c, reg
}

func TestListDecodesItems(t *testing.T) {
	c, reg := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/items", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Hammer","quantity":3,"category":"Tools","status":"LOW_STOCK"}]`))
	}))

	items, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.Item{ID: "1", Name: "Hammer", Quantity: 3, Category: "Tools", Status: domain.StatusLowStock}, items[0])

	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.requests.WithLabelValues("list", "200")))
	count, err := testutil.GatherAndCount(reg, "inventory_console_upstream_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListNullBodyYieldsEmptySlice(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))

	items, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestListReportsUpstreamStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := c.List(context.Background())
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
	assert.Equal(t, "boom", upstream.Body)
	assert.False(t, IsNotFound(err))
}

func TestCreateSendsJSONPayload(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{
			"name":     "Saw",
			"quantity": 7.0,
			"category": "Tools",
			"status":   "IN_STOCK",
		}, body)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"abc","name":"Saw","quantity":7,"category":"Tools","status":"IN_STOCK"}`))
	}))

	created, err := c.Create(context.Background(), domain.NewItem{
		Name: "Saw", Quantity: 7, Category: "Tools", Status: domain.StatusInStock,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ItemID("abc"), created.ID)
}

func TestCreateAcceptsSuccessWithoutUsableBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "created with empty body", status: http.StatusCreated},
		{name: "no content", status: http.StatusNoContent},
		{name: "plain text body", status: http.StatusOK, body: "created"},
		{name: "whitespace body", status: http.StatusCreated, body: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			created, err := c.Create(context.Background(), domain.NewItem{
				Name: "Saw", Quantity: 7, Category: "Tools", Status: domain.StatusInStock,
			})
			require.NoError(t, err)
			require.NotNil(t, created)
			assert.Empty(t, created.ID)
			assert.Equal(t, "Saw", created.Name)
			assert.Equal(t, 7, created.Quantity)
			assert.Equal(t, domain.StatusInStock, created.Status)
		})
	}
}

func TestListRejectsUnreadableBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}))

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnreadableBody)
}

func TestDeleteEscapesID(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.Delete(context.Background(), "a/b c"))
	assert.Equal(t, "/api/items/a%2Fb%20c", gotPath)
}

func TestDeleteMissingItemIsNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler())

	err := c.Delete(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestUnreachableServiceCountsAsError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := NewItemServiceClient(Config{BaseURL: srv.URL, Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.requests.WithLabelValues("list", "error")))
}

func TestNewItemServiceClientRejectsBadURL(t *testing.T) {
	_, err := NewItemServiceClient(Config{BaseURL: "localhost:8080", Registerer: prometheus.NewRegistry()})
	assert.Error(t, err)
}

func TestMetricsReuseExistingCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewItemServiceClient(Config{BaseURL: "http://localhost:1", Registerer: reg})
	require.NoError(t, err)
	b, err := NewItemServiceClient(Config{BaseURL: "http://localhost:2", Registerer: reg})
	require.NoError(t, err)
	assert.Same(t, a.metrics.requests, b.metrics.requests)
}

package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/inventory-console/internal/console"
	"github.com/tair/inventory-console/internal/item/domain"
	"github.com/tair/inventory-console/internal/item/validation"
	"github.com/tair/inventory-console/pkg/logger"
)

// SourceHTTP marks hub events raised by a manual refresh request
const SourceHTTP = "console-http"

//go:embed web/templates/*.html web/static
var webFS embed.FS

// ConsoleHandler serves the console page and its JSON API
type ConsoleHandler struct {
	controller *console.Controller
	pages      *template.Template
	static     http.Handler
	metrics    *handlerMetrics
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewConsoleHandler creates a new console handler
func NewConsoleHandler(controller *console.Controller, reg prometheus.Registerer) (*ConsoleHandler, error) {
	pages, err := template.ParseFS(webFS, "web/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	metrics, err := newHandlerMetrics(reg)
	if err != nil {
		return nil, err
	}
	controller.Subscribe(func(c console.Change) {
		metrics.snapshotItems.Set(float64(c.Count))
	})

	return &ConsoleHandler{
		controller: controller,
		pages:      pages,
		static:     http.StripPrefix("/static/", http.FileServer(http.FS(static))),
		metrics:    metrics,
	}, nil
}

// page is the data handed to the console template
type page struct {
	console.View
	MaxName     int
	MaxQuantity int
	MaxCategory int
}

// Index handles GET /
func (h *ConsoleHandler) Index(w http.ResponseWriter, r *http.Request) {
	if values := r.URL.Query(); values.Has("q") {
		h.controller.SetQuery(values.Get("q"))
	}

	var buf bytes.Buffer
	err := h.pages.ExecuteTemplate(&buf, "console", page{
		View:        h.controller.View(),
		MaxName:     domain.MaxNameLength,
		MaxQuantity: domain.MaxQuantityLength,
		MaxCategory: domain.MaxCategoryLength,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to render console")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// SubmitForm handles POST /items
func (h *ConsoleHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	draft := domain.Draft{
		Name:     r.PostForm.Get(domain.FieldName),
		Quantity: r.PostForm.Get(domain.FieldQuantity),
		Category: r.PostForm.Get(domain.FieldCategory),
		Status:   domain.Status(r.PostForm.Get(domain.FieldStatus)),
	}
	if err := h.controller.SetDraft(draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.controller.Submit(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteForm handles POST /items/{id}/delete
func (h *ConsoleHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	h.controller.Delete(r.Context(), domain.ItemID(mux.Vars(r)["id"]))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RoleForm handles POST /role
func (h *ConsoleHandler) RoleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	role, err := domain.ParseRole(r.PostForm.Get("role"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.controller.SetRole(role)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RefreshForm handles POST /refresh
func (h *ConsoleHandler) RefreshForm(w http.ResponseWriter, r *http.Request) {
	h.controller.Publish(r.Context(), SourceHTTP)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ListItems handles GET /console/api/items
func (h *ConsoleHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items := h.controller.Search(r.URL.Query().Get("q"))

	body, err := json.Marshal(items)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to encode items",
		})
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    json.RawMessage(body),
	})
}

type stateResponse struct {
	Role          domain.Role        `json:"role"`
	Roles         []domain.Role      `json:"roles"`
	Query         string             `json:"query"`
	Items         []domain.Item      `json:"items"`
	Total         int                `json:"total"`
	Draft         domain.Draft       `json:"draft"`
	Errors        domain.FieldErrors `json:"errors"`
	StatusOptions []domain.Status    `json:"status_options"`
	ShowForm      bool               `json:"show_form"`
	ShowDelete    bool               `json:"show_delete"`
	Version       uint64             `json:"version"`
	FetchedAt     *time.Time         `json:"fetched_at,omitempty"`
}

func newStateResponse(v console.View) stateResponse {
	s := stateResponse{
		Role:          v.Role,
		Roles:         v.Roles,
		Query:         v.Query,
		Items:         v.Items,
		Total:         v.Total,
		Draft:         v.Draft,
		Errors:        v.Errors,
		StatusOptions: v.StatusOptions,
		ShowForm:      v.ShowForm,
		ShowDelete:    v.ShowDelete,
		Version:       v.Version,
	}
	if !v.FetchedAt.IsZero() {
		s.FetchedAt = &v.FetchedAt
	}
	return s
}

// GetState handles GET /console/api/state
func (h *ConsoleHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    newStateResponse(h.controller.View()),
	})
}

// ValidateDraft handles POST /console/api/validate
func (h *ConsoleHandler) ValidateDraft(w http.ResponseWriter, r *http.Request) {
	var req domain.Draft
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"errors":           validation.Validate(req),
			"suggested_status": validation.SuggestStatus(req.Quantity),
		},
	})
}

// CreateItem handles POST /console/api/items
func (h *ConsoleHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req domain.Draft
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := h.controller.SetDraft(req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	errs := h.controller.Submit(r.Context())
	if msg, failed := errs[domain.FieldSubmit]; failed {
		respondJSON(w, http.StatusBadGateway, Response{
			Success: false,
			Error:   msg,
			Data:    errs,
		})
		return
	}
	if !errs.Empty() {
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "Validation failed",
			Data:    errs,
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Item added successfully",
	})
}

// DeleteItem handles DELETE /console/api/items/{id}
func (h *ConsoleHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	h.controller.Delete(r.Context(), domain.ItemID(mux.Vars(r)["id"]))

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Delete requested",
	})
}

// SetRole handles PUT /console/api/role
func (h *ConsoleHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.controller.SetRole(role)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Role updated",
		Data:    map[string]domain.Role{"role": role},
	})
}

type changeEvent struct {
	Version   uint64    `json:"version"`
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Stream handles GET /console/api/stream as server-sent events
func (h *ConsoleHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Streaming unsupported",
		})
		return
	}

	changes := make(chan console.Change, 8)
	unsubscribe := h.controller.Subscribe(func(c console.Change) {
		select {
		case changes <- c:
		default:
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	v := h.controller.View()
	if err := writeEvent(w, console.Change{Version: v.Version, Count: v.Total, FetchedAt: v.FetchedAt}); err != nil {
		return
	}
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-changes:
			if err := writeEvent(w, c); err != nil {
				logger.Debug(ctx).Err(err).Msg("Event stream closed")
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, c console.Change) error {
	data, err := json.Marshal(changeEvent{Version: c.Version, Count: c.Count, FetchedAt: c.FetchedAt})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
	return err
}

// RegisterRoutes registers all console routes
func (h *ConsoleHandler) RegisterRoutes(router *mux.Router) {
	// Page
	router.HandleFunc("/", h.metricsMiddleware("/", h.Index)).Methods("GET")
	router.HandleFunc("/items", h.metricsMiddleware("/items", h.SubmitForm)).Methods("POST")
	router.HandleFunc("/items/{id}/delete", h.metricsMiddleware("/items/{id}/delete", h.DeleteForm)).Methods("POST")
	router.HandleFunc("/role", h.metricsMiddleware("/role", h.RoleForm)).Methods("POST")
	router.HandleFunc("/refresh", h.metricsMiddleware("/refresh", h.RefreshForm)).Methods("POST")
	router.PathPrefix("/static/").Handler(h.static).Methods("GET")

	// JSON API
	api := router.PathPrefix("/console/api").Subrouter()
	api.HandleFunc("/items", h.metricsMiddleware("/console/api/items", h.ListItems)).Methods("GET")
	api.HandleFunc("/items", h.metricsMiddleware("/console/api/items", h.CreateItem)).Methods("POST")
	api.HandleFunc("/items/{id}", h.metricsMiddleware("/console/api/items/{id}", h.DeleteItem)).Methods("DELETE")
	api.HandleFunc("/state", h.metricsMiddleware("/console/api/state", h.GetState)).Methods("GET")
	api.HandleFunc("/validate", h.metricsMiddleware("/console/api/validate", h.ValidateDraft)).Methods("POST")
	api.HandleFunc("/role", h.metricsMiddleware("/console/api/role", h.SetRole)).Methods("PUT")
	api.HandleFunc("/stream", h.Stream).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

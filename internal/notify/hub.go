// Package notify carries the payload-free "inventory updated" signal between
// the parts of the console, and optionally between console processes.
package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tair/inventory-console/pkg/logger"
)

// EventTypeInventoryUpdated is the only event type the hub carries
const EventTypeInventoryUpdated = "inventory.updated"

// ForwardTimeout bounds a single relay forward
const ForwardTimeout = 5 * time.Second

// Event announces that the remote inventory may have changed. It carries no item data.
type Event struct {
	ID        string            `json:"event_id"`
	Type      string            `json:"event_type"`
	Origin    string            `json:"origin"`
	Source    string            `json:"source"`
	Timestamp time.Time         `json:"timestamp"`
	Trace     map[string]string `json:"trace,omitempty"`
}

// Listener is called for every delivered event
type Listener func(ctx context.Context, event Event)

// Relay forwards locally published events to other processes
type Relay interface {
	Forward(ctx context.Context, event Event) error
}

// Hub is the subscription point for inventory updates
type Hub struct {
	origin string

	mu        sync.RWMutex
	nextID    uint64
	listeners map[uint64]Listener
	relays    []Relay

	forwarding sync.WaitGroup
}

// NewHub creates a hub; origin identifies this process to its peers and is generated when empty
func NewHub(origin string) *Hub {
	if origin == "" {
		origin = uuid.NewString()
	}
	return &Hub{
		origin:    origin,
		listeners: make(map[uint64]Listener),
	}
}

// Origin returns the id stamped on events published by this process
func (h *Hub) Origin() string {
	return h.origin
}

// Subscribe registers l and returns a function that removes it
func (h *Hub) Subscribe(l Listener) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = l
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// AddRelay attaches a cross-process relay
func (h *Hub) AddRelay(r Relay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relays = append(h.relays, r)
}

// Publish announces a local change. Listeners run before Publish returns;
// relays are forwarded in the background, each bounded by ForwardTimeout.
// Relay failures are logged and do not stop delivery.
func (h *Hub) Publish(ctx context.Context, source string) Event {
	event := Event{
		ID:        uuid.NewString(),
		Type:      EventTypeInventoryUpdated,
		Origin:    h.origin,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}

	h.dispatch(ctx, event)

	h.mu.RLock()
	relays := append([]Relay(nil), h.relays...)
	h.mu.RUnlock()

	if len(relays) == 0 {
		return event
	}

	// the request that published may finish before the relays do
	fctx := context.WithoutCancel(ctx)
	h.forwarding.Add(1)
	go func() {
		defer h.forwarding.Done()
		for _, r := range relays {
			h.forward(fctx, r, event)
		}
	}()
	return event
}

func (h *Hub) forward(ctx context.Context, r Relay, event Event) {
	ctx, cancel := context.WithTimeout(ctx, ForwardTimeout)
	defer cancel()

	if err := r.Forward(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_id", event.ID).
			Msg("Failed to forward inventory update")
	}
}

// Wait blocks until every pending relay forward has finished
func (h *Hub) Wait() {
	h.forwarding.Wait()
}

// Deliver hands an event received from a peer to the local listeners.
// Events that this process published itself are dropped.
func (h *Hub) Deliver(ctx context.Context, event Event) bool {
	if event.Origin == h.origin {
		return false
	}
	if event.Type != "" && event.Type != EventTypeInventoryUpdated {
		logger.Warn(ctx).
			Str("event_type", event.Type).
			Msg("Ignoring unknown event type")
		return false
	}

	h.dispatch(ctx, event)
	return true
}

func (h *Hub) dispatch(ctx context.Context, event Event) {
	h.mu.RLock()
	ids := make([]uint64, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listeners := make([]Listener, len(ids))
	for i, id := range ids {
		listeners[i] = h.listeners[id]
	}
	h.mu.RUnlock()

	logger.Debug(ctx).
		Str("event_id", event.ID).
		Str("origin", event.Origin).
		Str("source", event.Source).
		Int("listeners", len(listeners)).
		Msg("Dispatching inventory update")

	for _, l := range listeners {
		l(ctx, event)
	}
}

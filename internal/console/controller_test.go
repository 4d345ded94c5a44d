package console

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-console/internal/item/client"
	"github.com/tair/inventory-console/internal/item/domain"
	"github.com/tair/inventory-console/internal/item/search"
	"github.com/tair/inventory-console/internal/item/usecase/command"
	"github.com/tair/inventory-console/internal/item/usecase/query"
	"github.com/tair/inventory-console/internal/item/validation"
	"github.com/tair/inventory-console/internal/notify"
)

// memoryStore is an in-memory stand-in for the remote item service
type memoryStore struct {
	mu        sync.Mutex
	items     []domain.Item
	nextID    int
	lists     int
	listErr   error
	createErr error
}

func (s *memoryStore) List(ctx context.Context) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.Item(nil), s.items...), nil
}

func (s *memoryStore) Create(ctx context.Context, in domain.NewItem) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	item := domain.Item{
		ID:       domain.ItemID(strconv.Itoa(s.nextID)),
		Name:     in.Name,
		Quantity: in.Quantity,
		Category: in.Category,
		Status:   in.Status,
	}
	s.items = append(s.items, item)
	return &item, nil
}

func (s *memoryStore) Delete(ctx context.Context, id domain.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (s *memoryStore) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

func newTestController(store *memoryStore, hub *notify.Hub) *Controller {
	if hub == nil {
		hub = notify.NewHub("test-node")
	}
	return NewController(
		query.NewListItemsHandler(store),
		query.NewSearchItemsHandler(search.NewMatcher(search.DefaultThreshold, search.DefaultDistance)),
		command.NewCreateItemHandler(store),
		command.NewDeleteItemHandler(store),
		hub,
		"",
	)
}

func seededStore() *memoryStore {
	return &memoryStore{
		nextID: 2,
		items: []domain.Item{
			{ID: "1", Name: "Hammer", Quantity: 10, Category: "Tools", Status: domain.StatusInStock},
			{ID: "2", Name: "Rake", Quantity: 0, Category: "Garden", Status: domain.StatusOrdered},
		},
	}
}

func TestNewControllerDefaults(t *testing.T) {
	c := newTestController(&memoryStore{}, nil)
	v := c.View()

	assert.Equal(t, domain.RoleAdmin, v.Role)
	assert.True(t, v.ShowForm)
	assert.True(t, v.ShowDelete)
	assert.Equal(t, domain.EmptyDraft(), v.Draft)
	assert.Empty(t, v.Items)
	assert.Empty(t, v.Errors)
	assert.Equal(t, domain.StatusOptions, v.StatusOptions)
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	store := seededStore()
	c := newTestController(store, nil)

	require.NoError(t, c.Refresh(context.Background()))
	v := c.View()
	assert.Len(t, v.Items, 2)
	assert.Equal(t, uint64(1), v.Version)
	assert.False(t, v.FetchedAt.IsZero())
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	store := seededStore()
	c := newTestController(store, nil)
	require.NoError(t, c.Refresh(context.Background()))

	store.listErr = errors.New("connection refused")
	assert.Error(t, c.Refresh(context.Background()))

	v := c.View()
	assert.Len(t, v.Items, 2)
	assert.Equal(t, uint64(1), v.Version)
	assert.Empty(t, v.Errors)
}

func TestEmptyQueryShowsSnapshotInOrder(t *testing.T) {
	c := newTestController(seededStore(), nil)
	require.NoError(t, c.Refresh(context.Background()))

	c.SetQuery("")
	v := c.View()
	require.Len(t, v.Items, 2)
	assert.Equal(t, "Hammer", v.Items[0].Name)
	assert.Equal(t, "Rake", v.Items[1].Name)

	c.SetQuery("gardn")
	v = c.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, "Rake", v.Items[0].Name)
	assert.Equal(t, 2, v.Total)
}

func TestSetFieldSuggestsStatusAndClearsError(t *testing.T) {
	c := newTestController(&memoryStore{}, nil)

	errs := c.Submit(context.Background())
	assert.Equal(t, validation.MsgQuantityRequired, errs[domain.FieldQuantity])

	require.NoError(t, c.SetField(domain.FieldQuantity, "3"))
	v := c.View()
	assert.Equal(t, domain.StatusLowStock, v.Draft.Status)
	assert.NotContains(t, v.Errors, domain.FieldQuantity)
	assert.Contains(t, v.Errors, domain.FieldName)

	require.NoError(t, c.SetField(domain.FieldQuantity, "0"))
	assert.Equal(t, domain.StatusOrdered, c.View().Draft.Status)

	assert.ErrorIs(t, c.SetField("colour", "red"), domain.ErrUnknownField)
}

func TestSetDraftKeepsExplicitStatus(t *testing.T) {
	c := newTestController(&memoryStore{}, nil)

	require.NoError(t, c.SetDraft(domain.Draft{Name: "Saw", Quantity: "2", Category: "Tools", Status: domain.StatusInStock}))
	assert.Equal(t, domain.StatusLowStock, c.View().Draft.Status)

	require.NoError(t, c.SetDraft(domain.Draft{Name: "Saw", Quantity: "2", Category: "Tools", Status: domain.StatusDiscontinued}))
	assert.Equal(t, domain.StatusDiscontinued, c.View().Draft.Status)

	require.NoError(t, c.SetDraft(domain.Draft{Name: "Saw", Quantity: "2", Category: "Tools", Status: domain.StatusDiscontinued}))
	assert.Equal(t, domain.StatusDiscontinued, c.View().Draft.Status)
}

func TestSubmitSuccessResetsDraftAndRefreshes(t *testing.T) {
	store := seededStore()
	c := newTestController(store, nil)
	require.NoError(t, c.Refresh(context.Background()))

	require.NoError(t, c.SetDraft(domain.Draft{Name: "John Doe", Quantity: "10", Category: "Tools"}))
	errs := c.Submit(context.Background())
	assert.Empty(t, errs)

	v := c.View()
	assert.Equal(t, domain.EmptyDraft(), v.Draft)
	assert.Empty(t, v.Errors)
	require.Len(t, v.Items, 3)
	assert.Equal(t, "John Doe", v.Items[2].Name)
	assert.Equal(t, 10, v.Items[2].Quantity)
	assert.Equal(t, 2, store.listCalls())
}

func TestSubmitSucceedsWhenServiceReturnsNoBody(t *testing.T) {
	var mu sync.Mutex
	posts, gets := 0, 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			posts++
			w.WriteHeader(http.StatusCreated)
		default:
			gets++
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":"9","name":"Saw","quantity":1,"category":"Tools","status":"LOW_STOCK"}]`))
		}
	}))
	defer srv.Close()

	store, err := client.NewItemServiceClient(client.Config{BaseURL: srv.URL, Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)

	c := NewController(
		query.NewListItemsHandler(store),
		query.NewSearchItemsHandler(search.NewMatcher(search.DefaultThreshold, search.DefaultDistance)),
		command.NewCreateItemHandler(store),
		command.NewDeleteItemHandler(store),
		notify.NewHub("test-node"),
		"",
	)

	require.NoError(t, c.SetDraft(domain.Draft{Name: "Saw", Quantity: "1", Category: "Tools"}))
	errs := c.Submit(context.Background())
	assert.Empty(t, errs)

	v := c.View()
	assert.Equal(t, domain.EmptyDraft(), v.Draft)
	assert.NotContains(t, v.Errors, domain.FieldSubmit)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "Saw", v.Items[0].Name)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, posts)
	assert.Equal(t, 1, gets)
}

func TestSubmitValidationErrorsDoNotCallStore(t *testing.T) {
	store := &memoryStore{}
	c := newTestController(store, nil)

	require.NoError(t, c.SetDraft(domain.Draft{Name: "John3", Quantity: "10", Category: "Tools"}))
	errs := c.Submit(context.Background())

	assert.Equal(t, domain.FieldErrors{domain.FieldName: validation.MsgLettersOnly}, errs)
	assert.Empty(t, store.items)
	assert.Equal(t, 0, store.listCalls())
	assert.Equal(t, "John3", c.View().Draft.Name)
}

func TestSubmitRemoteFailureShowsGenericMessage(t *testing.T) {
	store := &memoryStore{createErr: errors.New("503")}
	c := newTestController(store, nil)

	require.NoError(t, c.SetDraft(domain.Draft{Name: "Saw", Quantity: "1", Category: "Tools"}))
	errs := c.Submit(context.Background())

	assert.Equal(t, domain.FieldErrors{domain.FieldSubmit: MsgSubmitFailed}, errs)
	v := c.View()
	assert.Equal(t, "Saw", v.Draft.Name)
	assert.Equal(t, MsgSubmitFailed, v.Errors[domain.FieldSubmit])
	assert.Equal(t, 0, store.listCalls())
}

func TestDeleteRefreshesEvenWhenItemIsMissing(t *testing.T) {
	store := seededStore()
	c := newTestController(store, nil)
	require.NoError(t, c.Refresh(context.Background()))

	c.Delete(context.Background(), "does-not-exist")
	assert.Equal(t, 2, store.listCalls())
	assert.Len(t, c.View().Items, 2)
	assert.Empty(t, c.View().Errors)

	c.Delete(context.Background(), "1")
	assert.Equal(t, 3, store.listCalls())
	require.Len(t, c.View().Items, 1)
	assert.Equal(t, "Rake", c.View().Items[0].Name)
}

func TestViewerHidesMutationControls(t *testing.T) {
	c := newTestController(seededStore(), nil)
	require.NoError(t, c.Refresh(context.Background()))

	c.SetRole(domain.RoleViewer)
	v := c.View()
	assert.Equal(t, domain.RoleViewer, c.Role())
	assert.False(t, v.ShowForm)
	assert.False(t, v.ShowDelete)
	assert.Len(t, v.Items, 2)
}

func TestHubEventsTriggerRefresh(t *testing.T) {
	store := seededStore()
	hub := notify.NewHub("node-a")
	c := newTestController(store, hub)

	hub.Publish(context.Background(), "http")
	assert.Equal(t, 1, store.listCalls())

	hub.Deliver(context.Background(), notify.Event{Origin: "node-b", Type: notify.EventTypeInventoryUpdated})
	assert.Equal(t, 2, store.listCalls())

	hub.Publish(context.Background(), SourceController)
	assert.Equal(t, 2, store.listCalls())

	c.Close()
	hub.Publish(context.Background(), "http")
	assert.Equal(t, 2, store.listCalls())
}

func TestSubmitNotifiesPeers(t *testing.T) {
	hub := notify.NewHub("node-a")
	var events []notify.Event
	hub.Subscribe(func(ctx context.Context, e notify.Event) { events = append(events, e) })

	c := newTestController(&memoryStore{}, hub)
	require.NoError(t, c.SetDraft(domain.Draft{Name: "Saw", Quantity: "1", Category: "Tools"}))
	require.Empty(t, c.Submit(context.Background()))

	require.Len(t, events, 1)
	assert.Equal(t, SourceController, events[0].Source)
}

func TestObserversSeeSnapshotChanges(t *testing.T) {
	c := newTestController(seededStore(), nil)

	var changes []Change
	unsubscribe := c.Subscribe(func(ch Change) { changes = append(changes, ch) })

	require.NoError(t, c.Refresh(context.Background()))
	unsubscribe()
	require.NoError(t, c.Refresh(context.Background()))

	require.Len(t, changes, 1)
	assert.Equal(t, uint64(1), changes[0].Version)
	assert.Equal(t, 2, changes[0].Count)
}

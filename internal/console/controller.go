package console

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tair/inventory-console/internal/item/domain"
	"github.com/tair/inventory-console/internal/item/usecase/command"
	"github.com/tair/inventory-console/internal/item/usecase/query"
	"github.com/tair/inventory-console/internal/item/validation"
	"github.com/tair/inventory-console/internal/notify"
	"github.com/tair/inventory-console/pkg/logger"
)

// SourceController marks hub events raised by the controller's own mutations
const SourceController = "console-controller"

// MsgSubmitFailed is the only feedback given when the remote create fails
const MsgSubmitFailed = "Failed to add item"

// Change describes a snapshot replacement
type Change struct {
	Version   uint64
	Count     int
	FetchedAt time.Time
}

// Observer is notified after every successful snapshot replacement
type Observer func(Change)

// View is an immutable rendering of the console state
type View struct {
	Role          domain.Role
	Roles         []domain.Role
	Query         string
	Items         []domain.Item
	Total         int
	Draft         domain.Draft
	Errors        domain.FieldErrors
	StatusOptions []domain.Status
	ShowForm      bool
	ShowDelete    bool
	Version       uint64
	FetchedAt     time.Time
}

// Controller is the single owner of the console state: the item snapshot,
// the search query, the draft with its errors, and the display role.
type Controller struct {
	list   *query.ListItemsHandler
	search *query.SearchItemsHandler
	create *command.CreateItemHandler
	remove *command.DeleteItemHandler
	hub    *notify.Hub

	mu        sync.RWMutex
	snapshot  []domain.Item
	version   uint64
	fetchedAt time.Time
	query     string
	draft     domain.Draft
	errors    domain.FieldErrors
	role      domain.Role

	obsMu     sync.RWMutex
	nextObs   uint64
	observers map[uint64]Observer

	unsubscribe func()
}

// NewController creates the controller and subscribes it to hub
func NewController(
	list *query.ListItemsHandler,
	search *query.SearchItemsHandler,
	create *command.CreateItemHandler,
	remove *command.DeleteItemHandler,
	hub *notify.Hub,
	role domain.Role,
) *Controller {
	if role == "" {
		role = domain.RoleAdmin
	}

	c := &Controller{
		list:      list,
		search:    search,
		create:    create,
		remove:    remove,
		hub:       hub,
		snapshot:  []domain.Item{},
		draft:     domain.EmptyDraft(),
		errors:    domain.FieldErrors{},
		role:      role,
		observers: make(map[uint64]Observer),
	}
	c.unsubscribe = hub.Subscribe(c.HandleInventoryUpdated)
	return c
}

// Close detaches the controller from the hub
func (c *Controller) Close() {
	c.unsubscribe()
}

// Refresh replaces the snapshot with the remote collection. On failure the
// snapshot is left as is and the error is only logged; the caller may ignore it.
// Overlapping refreshes are not ordered: the last one to complete wins.
func (c *Controller) Refresh(ctx context.Context) error {
	items, err := c.list.Handle(ctx)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Error fetching items")
		return err
	}

	c.mu.Lock()
	c.snapshot = items
	c.version++
	c.fetchedAt = time.Now()
	change := Change{Version: c.version, Count: len(items), FetchedAt: c.fetchedAt}
	c.mu.Unlock()

	logger.Debug(ctx).
		Uint64("version", change.Version).
		Int("count", change.Count).
		Msg("Snapshot replaced")

	c.notifyObservers(change)
	return nil
}

// SetQuery changes the search query
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

// SetField updates one draft field and clears its error. Changing the
// quantity also replaces the draft status with the suggested one.
func (c *Controller) SetField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	draft, err := c.draft.With(field, value)
	if err != nil {
		return err
	}
	if field == domain.FieldQuantity {
		draft.Status = validation.SuggestStatus(draft.Quantity)
	}

	c.draft = draft
	delete(c.errors, field)
	return nil
}

// SetDraft applies a whole submitted form. Only changed fields are set, so
// the status suggested from a new quantity is kept unless the submitted status
// also differs from the one the draft already had.
func (c *Controller) SetDraft(d domain.Draft) error {
	c.mu.RLock()
	prev := c.draft
	c.mu.RUnlock()

	fields := []struct{ name, value, prev string }{
		{domain.FieldName, d.Name, prev.Name},
		{domain.FieldQuantity, d.Quantity, prev.Quantity},
		{domain.FieldCategory, d.Category, prev.Category},
	}
	for _, f := range fields {
		if f.value == f.prev {
			continue
		}
		if err := c.SetField(f.name, f.value); err != nil {
			return err
		}
	}
	if d.Status != "" && d.Status != prev.Status {
		return c.SetField(domain.FieldStatus, string(d.Status))
	}
	return nil
}

// Submit validates the draft and creates it remotely. It returns the errors
// now attached to the form; an empty result means the item was created, the
// draft was reset, and the snapshot was refreshed.
func (c *Controller) Submit(ctx context.Context) domain.FieldErrors {
	c.mu.RLock()
	draft := c.draft
	c.mu.RUnlock()

	item, err := c.create.Handle(ctx, command.CreateItemCommand{Draft: draft})
	if err != nil {
		var verr *command.ValidationError
		errs := domain.FieldErrors{domain.FieldSubmit: MsgSubmitFailed}
		if errors.As(err, &verr) {
			errs = verr.Fields
		} else {
			logger.Error(ctx).Err(err).Msg("Error adding item")
		}

		c.mu.Lock()
		c.errors = errs
		c.mu.Unlock()
		return errs.Clone()
	}

	logger.Info(ctx).
		Str("item_id", string(item.ID)).
		Str("name", item.Name).
		Msg("Item added")

	c.mu.Lock()
	c.draft = domain.EmptyDraft()
	c.errors = domain.FieldErrors{}
	c.mu.Unlock()

	c.hub.Publish(ctx, SourceController)
	_ = c.Refresh(ctx)
	return domain.FieldErrors{}
}

// Delete removes an item remotely and always refreshes afterwards; a failed
// delete is logged but otherwise looks the same as a successful one.
func (c *Controller) Delete(ctx context.Context, id domain.ItemID) {
	if err := c.remove.Handle(ctx, command.DeleteItemCommand{ID: id}); err != nil {
		logger.Error(ctx).Err(err).Str("item_id", string(id)).Msg("Error deleting item")
	} else {
		c.hub.Publish(ctx, SourceController)
	}
	_ = c.Refresh(ctx)
}

// SetRole switches the display role
func (c *Controller) SetRole(role domain.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.role = role
}

// Role returns the display role
func (c *Controller) Role() domain.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.role
}

// HandleInventoryUpdated refreshes on hub events not raised by this controller
func (c *Controller) HandleInventoryUpdated(ctx context.Context, event notify.Event) {
	if event.Origin == c.hub.Origin() && event.Source == SourceController {
		return
	}
	_ = c.Refresh(ctx)
}

// View returns the current state with the search applied
func (c *Controller) View() View {
	c.mu.RLock()
	snapshot := c.snapshot
	v := View{
		Role:          c.role,
		Roles:         domain.RoleOptions,
		Query:         c.query,
		Total:         len(c.snapshot),
		Draft:         c.draft,
		Errors:        c.errors.Clone(),
		StatusOptions: domain.StatusOptions,
		ShowForm:      c.role.CanMutate(),
		ShowDelete:    c.role.CanMutate(),
		Version:       c.version,
		FetchedAt:     c.fetchedAt,
	}
	c.mu.RUnlock()

	// snapshot slices are replaced, never mutated
	v.Items = c.search.Handle(query.SearchItemsQuery{Query: v.Query, Items: snapshot})
	return v
}

// Search filters the current snapshot with q without touching the stored query
func (c *Controller) Search(q string) []domain.Item {
	c.mu.RLock()
	snapshot := c.snapshot
	c.mu.RUnlock()

	return c.search.Handle(query.SearchItemsQuery{Query: q, Items: snapshot})
}

// Publish announces an external "inventory updated" signal on the hub
func (c *Controller) Publish(ctx context.Context, source string) {
	c.hub.Publish(ctx, source)
}

// Subscribe registers an observer for snapshot replacements
func (c *Controller) Subscribe(o Observer) func() {
	c.obsMu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = o
	c.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.obsMu.Lock()
			delete(c.observers, id)
			c.obsMu.Unlock()
		})
	}
}

func (c *Controller) notifyObservers(change Change) {
	c.obsMu.RLock()
	ids := make([]uint64, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = c.observers[id]
	}
	c.obsMu.RUnlock()

	for _, o := range observers {
		o(change)
	}
}

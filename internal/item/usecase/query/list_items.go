package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-console/internal/item/domain"
)

// ListItemsHandler handles list items query
type ListItemsHandler struct {
	store domain.ItemStore
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(store domain.ItemStore) *ListItemsHandler {
	return &ListItemsHandler{store: store}
}

// Handle fetches the full collection; the remote store does no paging or filtering
func (h *ListItemsHandler) Handle(ctx context.Context) ([]domain.Item, error) {
	items, err := h.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

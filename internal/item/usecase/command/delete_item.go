package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-console/internal/item/domain"
)

// DeleteItemCommand represents the command to delete an item
type DeleteItemCommand struct {
	ID domain.ItemID
}

// DeleteItemHandler handles delete item command
type DeleteItemHandler struct {
	store domain.ItemStore
}

// NewDeleteItemHandler creates a new delete item handler
func NewDeleteItemHandler(store domain.ItemStore) *DeleteItemHandler {
	return &DeleteItemHandler{store: store}
}

// Handle executes the delete item command
func (h *DeleteItemHandler) Handle(ctx context.Context, cmd DeleteItemCommand) error {
	if cmd.ID == "" {
		return fmt.Errorf("id is required")
	}

	if err := h.store.Delete(ctx, cmd.ID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}

package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-console/internal/item/domain"
	"github.com/tair/inventory-console/internal/item/validation"
)

// ValidationError carries the per-field messages of a rejected draft
type ValidationError struct {
	Fields domain.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("draft has %d invalid field(s)", len(e.Fields))
}

// CreateItemCommand represents the command to create an item from a draft
type CreateItemCommand struct {
	Draft domain.Draft
}

// CreateItemHandler handles create item command
type CreateItemHandler struct {
	store domain.ItemStore
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(store domain.ItemStore) *CreateItemHandler {
	return &CreateItemHandler{store: store}
}

// Handle validates the draft and sends it to the remote store
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*domain.Item, error) {
	if errs := validation.Validate(cmd.Draft); !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}

	status := cmd.Draft.Status
	if status == "" {
		status = domain.StatusInStock
	}

	item, err := h.store.Create(ctx, domain.NewItem{
		Name:     cmd.Draft.Name,
		Quantity: validation.ParseQuantity(cmd.Draft.Quantity),
		Category: cmd.Draft.Category,
		Status:   status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}

package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-console/internal/item/domain"
	"github.com/tair/inventory-console/internal/item/validation"
)

type fakeStore struct {
	created   []domain.NewItem
	deleted   []domain.ItemID
	createErr error
	deleteErr error
}

func (f *fakeStore) List(ctx context.Context) ([]domain.Item, error) {
	return nil, nil
}

func (f *fakeStore) Create(ctx context.Context, item domain.NewItem) (*domain.Item, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, item)
	return &domain.Item{ID: "new", Name: item.Name, Quantity: item.Quantity, Category: item.Category, Status: item.Status}, nil
}

func (f *fakeStore) Delete(ctx context.Context, id domain.ItemID) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func TestCreateItemConvertsDraft(t *testing.T) {
	store := &fakeStore{}
	h := NewCreateItemHandler(store)

	item, err := h.Handle(context.Background(), CreateItemCommand{Draft: domain.Draft{
		Name: "John Doe", Quantity: "10", Category: "Tools", Status: domain.StatusLowStock,
	}})
	require.NoError(t, err)
	assert.Equal(t, domain.ItemID("new"), item.ID)
	assert.Equal(t, []domain.NewItem{{Name: "John Doe", Quantity: 10, Category: "Tools", Status: domain.StatusLowStock}}, store.created)
}

func TestCreateItemDefaultsStatus(t *testing.T) {
	store := &fakeStore{}
	_, err := NewCreateItemHandler(store).Handle(context.Background(), CreateItemCommand{Draft: domain.Draft{
		Name: "Saw", Quantity: "1", Category: "Tools",
	}})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInStock, store.created[0].Status)
}

func TestCreateItemRejectsInvalidDraft(t *testing.T) {
	store := &fakeStore{}
	_, err := NewCreateItemHandler(store).Handle(context.Background(), CreateItemCommand{Draft: domain.Draft{
		Name: "John3", Quantity: "10", Category: "Tools",
	}})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, validation.MsgLettersOnly, verr.Fields[domain.FieldName])
	assert.Empty(t, store.created)
}

func TestCreateItemWrapsStoreError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewCreateItemHandler(&fakeStore{createErr: boom}).Handle(context.Background(), CreateItemCommand{Draft: domain.Draft{
		Name: "Saw", Quantity: "1", Category: "Tools",
	}})
	assert.ErrorIs(t, err, boom)
}

func TestDeleteItem(t *testing.T) {
	store := &fakeStore{}
	h := NewDeleteItemHandler(store)

	require.NoError(t, h.Handle(context.Background(), DeleteItemCommand{ID: "7"}))
	assert.Equal(t, []domain.ItemID{"7"}, store.deleted)

	assert.Error(t, h.Handle(context.Background(), DeleteItemCommand{}))
	assert.Len(t, store.deleted, 1)
}

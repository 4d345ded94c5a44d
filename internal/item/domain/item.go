package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Status is the stock state of an item
type Status string

const (
	StatusInStock      Status = "IN_STOCK"
	StatusLowStock     Status = "LOW_STOCK"
	StatusOrdered      Status = "ORDERED"
	StatusDiscontinued Status = "DISCONTINUED"
)

// StatusOptions lists every status in display order
var StatusOptions = []Status{
	StatusInStock,
	StatusLowStock,
	StatusOrdered,
	StatusDiscontinued,
}

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOrdered, StatusDiscontinued:
		return true
	}
	return false
}

// Label returns the human readable form, e.g. "IN STOCK"
func (s Status) Label() string {
	return strings.Replace(string(s), "_", " ", 1)
}

// Tone returns the badge tone used when rendering the status
func (s Status) Tone() string {
	switch s {
	case StatusInStock:
		return "success"
	case StatusLowStock:
		return "warning"
	case StatusOrdered:
		return "info"
	case StatusDiscontinued:
		return "error"
	default:
		return "default"
	}
}

// ItemID is the opaque identifier assigned by the remote store.
// It decodes from either a JSON string or a JSON number.
type ItemID string

// UnmarshalJSON accepts both `"abc"` and `42`
func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("item id must be a string or number: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

// Item represents an inventory record owned by the remote store
type Item struct {
	ID       ItemID `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
	Status   Status `json:"status"`
}

// NewItem is the payload sent to the remote store on create
type NewItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
	Status   Status `json:"status"`
}

// ItemStore defines the contract for the remote item collection
type ItemStore interface {
	List(ctx context.Context) ([]Item, error)
	Create(ctx context.Context, item NewItem) (*Item, error)
	Delete(ctx context.Context, id ItemID) error
}

// Role is a display-only switch; it is not a security boundary
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// RoleOptions lists the selectable roles
var RoleOptions = []Role{RoleAdmin, RoleViewer}

// ErrInvalidRole is returned when a role value is not recognised
var ErrInvalidRole = errors.New("invalid role")

// ParseRole converts a raw value into a Role
func ParseRole(value string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(value))); r {
	case RoleAdmin, RoleViewer:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, value)
}

// CanMutate reports whether add/delete controls are shown for the role
func (r Role) CanMutate() bool {
	return r == RoleAdmin
}

// Title returns the role with its first letter upper-cased
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

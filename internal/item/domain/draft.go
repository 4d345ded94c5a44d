package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Draft field names
const (
	FieldName     = "name"
	FieldQuantity = "quantity"
	FieldCategory = "category"
	FieldStatus   = "status"

	// FieldSubmit keys the error raised when the remote create fails
	FieldSubmit = "submit"
)

// Input caps applied when a field is set
const (
	MaxNameLength     = 32
	MaxQuantityLength = 6
	MaxCategoryLength = 32
)

var (
	// ErrUnknownField is returned when setting a field the draft does not have
	ErrUnknownField = errors.New("unknown draft field")
	// ErrInvalidStatus is returned when the status is not one of StatusOptions
	ErrInvalidStatus = errors.New("invalid status")
)

// Draft is the unsaved form state for a prospective item
type Draft struct {
	Name     string `json:"name" validate:"required,notblank,letters_spaces"`
	Quantity string `json:"quantity" validate:"required,number"`
	Category string `json:"category" validate:"required,notblank"`
	Status   Status `json:"status"`
}

// EmptyDraft returns the draft the form starts from
func EmptyDraft() Draft {
	return Draft{Status: StatusInStock}
}

// With returns a copy of d with field set to value, truncated to the field's cap
func (d Draft) With(field, value string) (Draft, error) {
	switch field {
	case FieldName:
		d.Name = truncate(value, MaxNameLength)
	case FieldQuantity:
		d.Quantity = truncate(value, MaxQuantityLength)
	case FieldCategory:
		d.Category = truncate(value, MaxCategoryLength)
	case FieldStatus:
		if !Status(value).IsValid() {
			return d, fmt.Errorf("%w: %q", ErrInvalidStatus, value)
		}
		d.Status = Status(value)
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return d, nil
}

// FieldErrors maps a field name to its error message
type FieldErrors map[string]string

// Empty reports whether there are no errors
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Clone returns an independent copy
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

func truncate(value string, max int) string {
	if utf8.RuneCountInString(value) <= max {
		return value
	}
	return string([]rune(value)[:max])
}

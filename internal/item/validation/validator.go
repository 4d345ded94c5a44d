// Package validation holds the advisory checks run on a draft before it is
// submitted, and the quantity based status suggestion.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tair/inventory-console/internal/item/domain"
)

// Error messages shown next to the form
const (
	MsgNameRequired     = "Name is required"
	MsgLettersOnly      = "Letters only"
	MsgQuantityRequired = "Quantity is required"
	MsgNumbersOnly      = "Numbers only"
	MsgCategoryRequired = "Category is required"
)

// messages maps a field and the failing tag to the form message
var messages = map[string]map[string]string{
	domain.FieldName: {
		"required":       MsgNameRequired,
		"notblank":       MsgNameRequired,
		"letters_spaces": MsgLettersOnly,
	},
	domain.FieldQuantity: {
		"required": MsgQuantityRequired,
		"number":   MsgNumbersOnly,
	},
	domain.FieldCategory: {
		"required": MsgCategoryRequired,
		"notblank": MsgCategoryRequired,
	},
}

var lettersSpacesRegex = regexp.MustCompile(`^[A-Za-z ]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their form name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("letters_spaces", func(fl validator.FieldLevel) bool {
		return lettersSpacesRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate returns an error per failing field; an empty result means the draft can be submitted
func Validate(d domain.Draft) domain.FieldErrors {
	errs := domain.FieldErrors{}

	err := validate.Struct(d)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// only reachable with a misconfigured validator
		errs[domain.FieldSubmit] = err.Error()
		return errs
	}

	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		errs[fe.Field()] = msg
	}
	return errs
}

// SuggestStatus derives a status from the raw quantity text.
//
// Quantities above 100 fall through to IN_STOCK just like 5..100 do; there is
// no separate "overstock" state.
func SuggestStatus(quantity string) domain.Status {
	q, ok := leadingInt(quantity)
	switch {
	case !ok:
		return domain.StatusInStock
	case q == 0:
		return domain.StatusOrdered
	case q < 5:
		return domain.StatusLowStock
	default:
		return domain.StatusInStock
	}
}

// ParseQuantity converts validated quantity text into the integer sent upstream
func ParseQuantity(quantity string) int {
	q, _ := leadingInt(quantity)
	return q
}

// leadingInt reads an optional sign and the leading decimal digits after any
// whitespace, ignoring whatever follows. "12abc" yields 12, "abc" yields !ok.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		if n < 1<<31 {
			n = n*10 + int(r-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

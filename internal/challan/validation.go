package challan

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chamunda-enterprise/challan/internal/platform/httpx"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func errMissingItemField(index int, field string) error {
	return httpx.Invalid(fmt.Sprintf("items[%d].%s is required", index, field))
}

// ValidateFinal checks the fields every non-draft save requires.
func ValidateFinal(date, buyer string, items []RawItem) error {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(buyer) == "" || len(items) == 0 {
		return ErrMissingFields
	}
	return nil
}

// ValidateItems runs struct validation over normalized items.
func ValidateItems(items []Item) error {
	for i := range items {
		if err := validate.Struct(items[i]); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				return httpx.Invalid(fmt.Sprintf("items[%d].%s", i, describeFieldError(fieldErrs[0])))
			}
			return httpx.Invalid(err.Error())
		}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// ParseStatus validates a client-supplied status, defaulting to draft.
func ParseStatus(s Status) (Status, error) {
	if s == "" {
		return StatusDraft, nil
	}
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

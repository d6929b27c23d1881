package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance. Struct tags on the
// entity types define the required-field and range rules; entities are
// validated once at construction and never mutated afterwards. Fields
// are reported by their json tag names so messages match the provider's
// wire naming.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	return v
}

// Validate checks an entity against its struct tags and returns a
// ValidationError naming the first offending field. A nil return means
// the value satisfies its construction invariants.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return NewValidationError("", err.Error())
	}

	first := validationErrors[0]

	return NewValidationError(fieldPath(first.Namespace()), describeTag(first))
}

// fieldPath strips the leading struct name from a validator namespace,
// turning "OrderDetail.items[0].productUid" into "items[0].productUid".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	for i, part := range parts {
		if part == "" {
			continue
		}

		parts[i] = strings.ToLower(part[:1]) + part[1:]
	}

	return strings.Join(parts, ".")
}

// describeTag formats a single field validation failure.
func describeTag(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %q validation", e.Tag())
	}
}

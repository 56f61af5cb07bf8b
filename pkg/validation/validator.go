package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxIdentifierLength bounds factory and node identifiers given on the command line
	MaxIdentifierLength = 256
)

func init() {
	validate = validator.New()

	// Report fields by their YAML key so errors match the configuration file
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Struct validates v using its struct tags and returns the first failure
func Struct(v any) error {
	if v == nil {
		return errors.New("value to validate cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateIdentifier checks an identifier taken from the command line. It must
// be something a record field can hold: non-empty, not the empty marker, and
// free of separators and line breaks.
func ValidateIdentifier(id string) error {
	if id == "" {
		return errors.New("identifier cannot be empty")
	}
	if id == "-" {
		return errors.New("identifier cannot be the empty-field marker '-'")
	}
	if len(id) > MaxIdentifierLength {
		return fmt.Errorf("identifier exceeds maximum length of %d characters", MaxIdentifierLength)
	}
	if strings.ContainsAny(id, ";\r\n") {
		return fmt.Errorf("identifier '%s' contains a separator or line break", id)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := fieldPath(e)
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

// fieldPath drops the root struct name from the namespace, leaving a dotted key
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// Package validation checks request payloads against their declared
// constraints and reports every violation at once, not just the first.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Field names in error reports are
// taken from the json tags so that they match the wire format.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error aggregates all violations found in one payload.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Field + " " + f.Message
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// NewError builds an Error for a single field, for violations detected
// outside of struct tags such as unparsable URL parameters.
func NewError(field string, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

// Struct validates the tagged struct and returns nil or an *Error listing
// every violated field. It has no side effects on the value.
func Struct(value interface{}) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	result := &Error{}
	for _, violation := range violations {
		result.Fields = append(result.Fields, FieldError{
			Field:   violation.Field(),
			Message: messageFor(violation),
		})
	}
	return result
}

// messageFor renders a human-readable message for a violated constraint.
func messageFor(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return "must not be blank"
	case "min":
		if violation.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", violation.Param())
		}
		return fmt.Sprintf("must be at least %s", violation.Param())
	case "max":
		if violation.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", violation.Param())
		}
		return fmt.Sprintf("must be at most %s", violation.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("is not valid (%s)", violation.Tag())
	}
}

// Package validation provides request validation using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dreamjournal/dreamjournal/internal/model"
)

// Error is returned when input fails its schema.
// Fields maps JSON field names to a human readable reason.
type Error struct {
	Message string
	Fields  map[string]string
}

// NewError builds a validation error for a single field.
func NewError(field, reason string) *Error {
	return &Error{
		Message: "validation failed",
		Fields:  map[string]string{field: reason},
	}
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for dream journal payloads.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// oneof splits on spaces, so the rating literals need their own rule
	mustRegister(v, "rating", func(fl validator.FieldLevel) bool {
		return model.Rating(fl.Field().String()).IsValid()
	})

	return &Validator{v: v}
}

// mustRegister panics if a custom rule cannot be installed, so a typo in
// the tag never silently turns the rule off.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Validate validates a struct and returns *Error on failure.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[fieldPath(e)] = friendlyMessage(e)
	}

	return &Error{Message: "validation failed", Fields: fields}
}

// fieldPath drops the top-level struct name from the namespace so nested
// list entries read as "tags[1]".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", e.Param())
		}
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "gt":
		return "must be greater than " + e.Param()
	case "rating":
		ratings := make([]string, len(model.Ratings))
		for i, r := range model.Ratings {
			ratings[i] = string(r)
		}
		return "must be one of: " + strings.Join(ratings, ", ")
	default:
		return "is invalid"
	}
}

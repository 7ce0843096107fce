package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator that reports fields by their JSON name
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{
		validate: v,
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// Validate returns nil or a field -> message map
func (v *Validator) Validate(s interface{}) map[string]string {
	if err := v.ValidateStruct(s); err != nil {
		return FormatValidationErrors(err)
	}
	return nil
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		out["_"] = err.Error()
		return out
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = fmt.Sprintf("The %s field is required.", field)
		case "email":
			out[field] = fmt.Sprintf("The %s must be a valid email address.", field)
		case "url":
			out[field] = fmt.Sprintf("The %s must be a valid URL.", field)
		case "min":
			if isNumeric(e.Kind()) {
				out[field] = fmt.Sprintf("The %s must be at least %s.", field, e.Param())
			} else {
				out[field] = fmt.Sprintf("The %s must be at least %s characters.", field, e.Param())
			}
		case "max":
			if isNumeric(e.Kind()) {
				out[field] = fmt.Sprintf("The %s may not be greater than %s.", field, e.Param())
			} else {
				out[field] = fmt.Sprintf("The %s may not be greater than %s characters.", field, e.Param())
			}
		case "gte":
			out[field] = fmt.Sprintf("The %s must be greater than or equal to %s.", field, e.Param())
		case "lte":
			out[field] = fmt.Sprintf("The %s must be less than or equal to %s.", field, e.Param())
		case "gt":
			out[field] = fmt.Sprintf("The %s must be greater than %s.", field, e.Param())
		default:
			out[field] = fmt.Sprintf("The %s is invalid.", field)
		}
	}

	return out
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}

// SanitizePtr applies SanitizeString to an optional value
func SanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := SanitizeString(*s)
	return &v
}

package model

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their serialized names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "yaml"} {
			name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	return v
}

// Validate checks the `validate` struct tags of v.
func Validate(v any) error {
	return validate.Struct(v)
}

// FieldError describes one failed rule of one field.
type FieldError struct {
	Code  string `json:"code"`
	Param string `json:"param,omitempty"`
	Value any    `json:"value,omitempty"`
}

// ValidationDetails groups the failed rules of err by field name. It returns
// nil when err is not a validation error.
func ValidationDetails(err error) map[string][]FieldError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	details := make(map[string][]FieldError, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = append(details[fe.Field()], FieldError{
			Code:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return details
}

func IsValidationError(err error) bool {
	var errs validator.ValidationErrors
	return errors.As(err, &errs)
}

// Package validation contains the logic for validating
// configuration and decoding request data.
//
// It uses the `validator` library to enforce rules (like
// required fields or URL formats) defined in struct tags
// and extracts validation errors into a format an operator can
// understand.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/deppfellow/newsletter-signup/internal/errs"
)

// NewValidator returns a validator that reports field names using their
// `koanf` tag, so errors read like the config keys an operator sets.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// FieldErrors converts validator errors into field-level errors.
//
// Field is the dotted key path without the root struct name
// (e.g. "recaptcha.secret"). Errors that are not validator errors are
// returned as a single entry with an empty field.
func FieldErrors(err error) []errs.FieldError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []errs.FieldError{{Error: err.Error()}}
	}

	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		case "url", "http_url":
			msg = "must be an absolute http(s) URL"

		case "email":
			msg = "must be a valid email address"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("failed %s:%s", err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("failed %s", err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fieldPath(err.Namespace()),
			Error: msg,
		})
	}

	return fieldErrors
}

// Describe flattens FieldErrors into one line, e.g.
// "recaptcha.secret is required; site.url must be an absolute http(s) URL".
func Describe(err error) string {
	fieldErrors := FieldErrors(err)
	parts := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if fe.Field == "" {
			parts = append(parts, fe.Error)
			continue
		}
		parts = append(parts, fe.Field+" "+fe.Error)
	}
	return strings.Join(parts, "; ")
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

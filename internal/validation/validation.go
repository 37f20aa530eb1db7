// Package validation checks inbound API payloads and maps violations to
// per-field message lists for the response envelope.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Field errors are keyed by the json name the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Check validates the payload and returns per-field messages, nil when the
// payload is valid.
func (v *Validator) Check(payload interface{}) map[string][]string {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"_": {"invalid payload"}}
	}

	fields := make(map[string][]string, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		if field == "" {
			field = "_"
		}
		fields[field] = append(fields[field], fieldMessage(fe))
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "datetime":
		return "must be a valid date (YYYY-MM-DD)"
	case "uuid":
		return "must be a valid id"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "strongpwd":
		return "must be at least 12 characters and mix upper, lower, digits and symbols"
	default:
		return "is invalid"
	}
}

// IsStrongPassword accepts passwords of 12+ characters covering all four
// character classes, or 14+ characters covering lower, upper and digit.
func IsStrongPassword(password string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}

	n := len([]rune(password))
	if n >= 12 && lower && upper && digit && symbol {
		return true
	}
	return n >= 14 && lower && upper && digit
}

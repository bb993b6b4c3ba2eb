package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// RegisterValidators adds the project's custom tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
}

// ValidationIssues flattens a binding error into field-level issues.
func ValidationIssues(err error) []Issue {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		issues := make([]Issue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, Issue{
				Path:    fieldPath(fe.Namespace()),
				Code:    fe.Tag(),
				Message: issueMessage(fe),
			})
		}
		return issues
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []Issue{{
			Path:    strings.Split(typeErr.Field, "."),
			Code:    "invalid_type",
			Message: fmt.Sprintf("expected %s", typeErr.Type.String()),
		}}
	}

	return []Issue{{Path: []string{}, Code: "invalid_body", Message: err.Error()}}
}

// BindError converts a gin binding failure into a validation AppError.
func BindError(err error) *AppError {
	return NewValidationError("Validation failed", ValidationIssues(err))
}

// fieldPath drops the root struct name: "BookingInput.email" -> ["email"].
func fieldPath(namespace string) []string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = lowerFirst(p)
	}
	return parts
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "clock":
		return "Expected a time of day as HH:MM"
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}

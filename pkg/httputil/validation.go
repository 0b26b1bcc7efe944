package httputil

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Key failures by the JSON field name the client sent, not the Go
	// struct field. Keeps the details map consistent with the ones built
	// from database constraint violations.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs struct tag validation and folds all failures into one
// VALIDATION_ERROR carrying a message per field
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	details := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		details[fieldErr.Field()] = fieldMessage(fieldErr)
	}
	return errors.Validation(details)
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be at least " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "invalid value"
	}
}

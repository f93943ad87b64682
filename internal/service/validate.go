package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/lolidays/internal/domain"
)

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves the whole package.
var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldNames maps struct field names to the words users see in chat.
var fieldNames = map[string]string{
	"Title":      "title",
	"VacationID": "vacation id",
	"Name":       "name",
	"AlbumURL":   "album url",
	"Idx":        "order",
}

// validateStruct runs the struct's `validate` tags and converts the first
// failure into a domain.ErrValidation with a human-readable message.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	fe := fieldErrs[0]
	name, ok := fieldNames[fe.Field()]
	if !ok {
		name = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	case "url", "http_url":
		return fmt.Errorf("%w: %s must be an http or https URL", domain.ErrValidation, name)
	case "min", "max":
		return fmt.Errorf("%w: %s is out of range", domain.ErrValidation, name)
	default:
		return fmt.Errorf("%w: %s is invalid", domain.ErrValidation, name)
	}
}

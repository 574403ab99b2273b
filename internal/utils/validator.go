package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Issue mirrors the validation error shape returned by the API.
type Issue struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// Validate checks struct tags and returns the full issue list, or nil.
func Validate(payload interface{}) []Issue {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []Issue{{Message: err.Error()}}
	}
	out := make([]Issue, len(ve))
	for i, fe := range ve {
		out[i] = Issue{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fmt.Sprintf("validation failed on field '%s' for tag '%s'", fe.Field(), fe.Tag()),
		}
	}
	return out
}

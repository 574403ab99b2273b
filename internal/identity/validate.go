package identity

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegisterInput is the registration payload. Phone format is NNN-NNN-NNNN.
type RegisterInput struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,min=10,phone"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,min=10"`
	Gender          string `json:"gender" validate:"omitempty,oneof=Male Female"`
	DateOfBirth     string `json:"dateOfBirth" validate:"omitempty"`
	TwoStepEnabled  bool   `json:"twoStepEnabled"`
}

// UpdateProfileInput is the partial profile payload. Credentials cannot be
// changed here; that goes through the reset-password flow.
type UpdateProfileInput struct {
	FirstName      *string `json:"firstName" form:"firstName" validate:"omitempty,min=1"`
	LastName       *string `json:"lastName" form:"lastName" validate:"omitempty,min=1"`
	Email          *string `json:"email" form:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone" form:"phone" validate:"omitempty,min=10,phone"`
	Gender         *string `json:"gender" form:"gender" validate:"omitempty,oneof=Male Female"`
	DateOfBirth    *string `json:"dateOfBirth" form:"dateOfBirth" validate:"omitempty"`
	TwoStepEnabled *bool   `json:"twoStepEnabled" form:"twoStepEnabled"`
}

// ResetPasswordInput carries the forgot-password completion payload.
type ResetPasswordInput struct {
	Identifier      string `json:"identifier" validate:"required"`
	Token           string `json:"token" validate:"required,len=4"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,min=8"`
}

var phonePattern = regexp.MustCompile(`^[0-9]{3}-[0-9]{3}-[0-9]{4}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// formatIssues converts validator errors into the issue list surfaced to
// clients.
func formatIssues(err error) []Issue {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []Issue{{Message: err.Error()}}
	}
	out := make([]Issue, len(ve))
	for i, fe := range ve {
		issue := Issue{Field: fe.Field(), Tag: fe.Tag()}
		switch fe.Tag() {
		case "required":
			issue.Message = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			issue.Message = fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "phone":
			issue.Message = fmt.Sprintf("%s must match the format NNN-NNN-NNNN", fe.Field())
		case "min":
			issue.Message = fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
		case "len":
			issue.Message = fmt.Sprintf("%s must be exactly %s characters long", fe.Field(), fe.Param())
		case "oneof":
			issue.Message = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		default:
			issue.Message = fmt.Sprintf("validation failed on field '%s' for tag '%s'", fe.Field(), fe.Tag())
		}
		out[i] = issue
	}
	return out
}

func (s *Service) validate(payload interface{}) error {
	if err := s.valid.Struct(payload); err != nil {
		return &ValidationError{Issues: formatIssues(err)}
	}
	return nil
}

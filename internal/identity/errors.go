package identity

import (
	"errors"
	"strings"
)

// Sentinel errors for the credential lifecycle. Handlers map these onto
// HTTP statuses.
var (
	ErrConflict           = errors.New("user with this email or phone already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("password doesn't match")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrUnauthenticated    = errors.New("missing or invalid bearer token")
)

// Issue is a single validation violation.
type Issue struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a payload so clients can
// surface them all at once.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Message
	}
	return strings.Join(msgs, "; ")
}

func singleIssue(field, message string) *ValidationError {
	return &ValidationError{Issues: []Issue{{Field: field, Message: message}}}
}

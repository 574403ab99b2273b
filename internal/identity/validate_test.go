package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhoneTag(t *testing.T) {
	v := newValidator()

	type payload struct {
		Phone string `validate:"phone"`
	}

	cases := []struct {
		phone string
		ok    bool
	}{
		{"111-222-3333", true},
		{"1112223333", false},
		{"111-222-333", false},
		{"abc-def-ghij", false},
		{"111-222-33334", false},
	}
	for _, tc := range cases {
		err := v.Struct(payload{Phone: tc.phone})
		if tc.ok {
			assert.NoError(t, err, "phone %q", tc.phone)
		} else {
			assert.Error(t, err, "phone %q", tc.phone)
		}
	}
}

func TestFormatIssuesMessages(t *testing.T) {
	v := newValidator()

	in := RegisterInput{
		FirstName:       "A",
		LastName:        "B",
		Email:           "bad",
		Phone:           "111-222-3333",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
	}
	err := v.Struct(in)
	require.Error(t, err)

	issues := formatIssues(err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Email", issues[0].Field)
	assert.Equal(t, "email", issues[0].Tag)
	assert.Contains(t, issues[0].Message, "valid email address")
}

func TestValidationErrorJoinsMessages(t *testing.T) {
	err := &ValidationError{Issues: []Issue{
		{Field: "a", Message: "first"},
		{Field: "b", Message: "second"},
	}}
	assert.Equal(t, "first; second", err.Error())
}

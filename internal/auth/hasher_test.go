package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashRoundTrip(t *testing.T) {
	h := NewHasher()

	digest, err := h.Hash("supersecret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2"))
	assert.NotContains(t, digest, "supersecret1")

	assert.True(t, h.Verify("supersecret1", digest))
	assert.False(t, h.Verify("supersecret2", digest))
	assert.False(t, h.Verify("supersecret1", "not-a-digest"))
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher()

	a, err := h.Hash("samepassword")
	require.NoError(t, err)
	b, err := h.Hash("samepassword")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

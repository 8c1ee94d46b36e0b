package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	h := Hasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, h.Check(hash, "secret"))
	assert.ErrorIs(t, h.Check(hash, "wrong"), ErrBadCredentials)
	assert.ErrorIs(t, h.Check("not-a-hash", "secret"), ErrBadCredentials)
}

func TestHasher_ZeroCostUsesDefault(t *testing.T) {
	hash, err := Hasher{}.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

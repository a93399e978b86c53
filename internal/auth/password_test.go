package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/harvest/internal/config"
)

func testHasher() *Hasher {
	cfg := config.Config{}
	cfg.Auth.BcryptCost = 4
	return NewHasher(cfg)
}

func TestHashAndCompare(t *testing.T) {
	hasher := testHasher()

	hashed, err := hasher.Hash("s3cret-passphrase")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-passphrase", hashed)

	assert.True(t, hasher.Compare(hashed, "s3cret-passphrase"))
	assert.False(t, hasher.Compare(hashed, "wrong-passphrase"))
}

func TestHashIsSalted(t *testing.T) {
	hasher := testHasher()

	first, err := hasher.Hash("same-input")
	require.NoError(t, err)
	second, err := hasher.Hash("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Compare(first, "same-input"))
	assert.True(t, hasher.Compare(second, "same-input"))
}

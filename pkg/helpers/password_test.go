package helpers_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louiecodes/auth-service/pkg/helpers"
)

func TestArgon2Hasher_Hash(t *testing.T) {
	hasher := helpers.NewArgon2Hasher()

	t.Run("produces PHC-encoded hash", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
		assert.Len(t, strings.Split(hash, "$"), 6)
	})

	t.Run("same password produces different hashes (salt)", func(t *testing.T) {
		hash1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		hash2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})
}

func TestArgon2Hasher_Verify(t *testing.T) {
	hasher := helpers.NewArgon2Hasher()

	t.Run("correct password verifies", func(t *testing.T) {
		hash, err := hasher.Hash("correctpassword")
		require.NoError(t, err)
		assert.True(t, hasher.Verify(hash, "correctpassword"))
	})

	t.Run("incorrect password fails", func(t *testing.T) {
		hash, err := hasher.Hash("correctpassword")
		require.NoError(t, err)
		assert.False(t, hasher.Verify(hash, "wrongpassword"))
	})

	t.Run("malformed hash is a mismatch, not a panic", func(t *testing.T) {
		assert.False(t, hasher.Verify("not-a-hash", "password"))
		assert.False(t, hasher.Verify("$argon2id$v=19$m=65536,t=1,p=4$bad", "password"))
		assert.False(t, hasher.Verify("$bcrypt$whatever", "password"))
		assert.False(t, hasher.Verify("", "password"))
	})

	t.Run("verification is self-contained", func(t *testing.T) {
		// Parameters come from the hash string itself.
		hash, err := hasher.Hash("portable")
		require.NoError(t, err)
		assert.True(t, helpers.NewArgon2Hasher().Verify(hash, "portable"))
	})
}

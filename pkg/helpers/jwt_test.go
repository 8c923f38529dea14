package helpers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louiecodes/auth-service/pkg/helpers"
)

func newTestJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("access-secret", "refresh-secret", "reset-secret", time.Minute, time.Hour)
}

func TestJWTManager_GeneratePair(t *testing.T) {
	m := newTestJWT()

	pair, err := m.GeneratePair(42, "louie@codes.com")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	t.Run("access token carries id and email", func(t *testing.T) {
		claims, err := m.ParseAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, "louie@codes.com", claims.Email)
	})

	t.Run("refresh token carries id and email", func(t *testing.T) {
		claims, err := m.ParseRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, "louie@codes.com", claims.Email)
	})

	t.Run("secrets are independent per class", func(t *testing.T) {
		_, err := m.ParseAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, helpers.ErrInvalidToken)
		_, err = m.ParseRefreshToken(pair.AccessToken)
		assert.ErrorIs(t, err, helpers.ErrInvalidToken)
	})
}

func TestJWTManager_ParseErrors(t *testing.T) {
	m := newTestJWT()

	t.Run("expired token is invalid", func(t *testing.T) {
		expired := helpers.NewJWTManager("access-secret", "refresh-secret", "reset-secret", -time.Minute, -time.Minute)
		pair, err := expired.GeneratePair(1, "a@b.com")
		require.NoError(t, err)
		_, err = m.ParseAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, helpers.ErrInvalidToken)
	})

	t.Run("tampered signature is invalid", func(t *testing.T) {
		other := helpers.NewJWTManager("other", "other", "other", time.Minute, time.Hour)
		pair, err := other.GeneratePair(1, "a@b.com")
		require.NoError(t, err)
		_, err = m.ParseAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, helpers.ErrInvalidToken)
	})

	t.Run("garbage is malformed", func(t *testing.T) {
		_, err := m.ParseAccessToken("not.a.token")
		assert.ErrorIs(t, err, helpers.ErrMalformedToken)
		_, err = m.ParseResetToken("")
		assert.ErrorIs(t, err, helpers.ErrMalformedToken)
	})
}

func TestJWTManager_ResetToken(t *testing.T) {
	m := newTestJWT()

	token, err := m.GenerateResetToken(7)
	require.NoError(t, err)

	claims, err := m.ParseResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)

	t.Run("reset token rejected by other parsers", func(t *testing.T) {
		_, err := m.ParseAccessToken(token)
		assert.ErrorIs(t, err, helpers.ErrInvalidToken)
	})

	t.Run("expiry is one hour", func(t *testing.T) {
		require.NotNil(t, claims.ExpiresAt)
		assert.WithinDuration(t, time.Now().Add(helpers.ResetTokenTTL), claims.ExpiresAt.Time, time.Minute)
	})
}

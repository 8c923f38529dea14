package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/louiecodes/auth-service/pkg/helpers"
	"github.com/louiecodes/auth-service/pkg/response"
)

const (
	refreshUserIDKey = "refreshUserID"
	refreshTokenKey  = "refreshToken"
)

// RefreshGuard verifies the refresh token's signature and expiry with the
// refresh secret and exposes the claims plus the raw token to the handler.
// The service still compares the token against the stored hash.
func RefreshGuard(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c, "refresh_token")
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing refresh token", nil)
			return
		}
		claims, err := jwt.ParseRefreshToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid refresh token", nil)
			return
		}
		c.Set(refreshUserIDKey, claims.UserID)
		c.Set(refreshTokenKey, token)
		c.Next()
	}
}

// RefreshContext returns the user id and raw token set by RefreshGuard.
func RefreshContext(c *gin.Context) (int64, string, bool) {
	id, ok := c.Get(refreshUserIDKey)
	if !ok {
		return 0, "", false
	}
	token := c.GetString(refreshTokenKey)
	userID, ok := id.(int64)
	return userID, token, ok && token != ""
}

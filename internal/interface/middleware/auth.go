package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/louiecodes/auth-service/internal/domain/repository"
	"github.com/louiecodes/auth-service/pkg/helpers"
	"github.com/louiecodes/auth-service/pkg/response"
)

const principalKey = "principal"

// Principal is the authenticated identity attached to the request context by
// the Auth middleware. Role carries the role name for downstream guards.
type Principal struct {
	UserID    int64
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// CurrentUser returns the principal populated by Auth, if any.
func CurrentUser(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// bearerToken extracts a token from the Authorization header, falling back to
// the named cookie.
func bearerToken(c *gin.Context, cookie string) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if t, err := c.Cookie(cookie); err == nil {
		return t
	}
	return ""
}

// Auth validates the access token, re-hydrates the user from the store and
// attaches a Principal to the request context.
func Auth(jwt *helpers.JWTManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c, "access_token")
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "unknown user", nil)
			return
		}

		c.Set(principalKey, Principal{
			UserID:    u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      u.RoleName,
		})
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/louiecodes/auth-service/pkg/response"
)

// RequireRoles restricts a route to principals holding one of the named
// roles. Must run after Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		p, ok := CurrentUser(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		if _, ok := allowed[p.Role]; !ok {
			response.AbortError(c, http.StatusForbidden, "insufficient role", nil)
			return
		}
		c.Next()
	}
}

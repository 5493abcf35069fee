package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserKey is the gin context key holding the resolved user id.
const UserKey = "userID"

// Resolver is the minimal interface the middleware depends on to check a
// user id against the externally supplied user set.
type Resolver interface {
	Known(id string) bool
}

// IdentityMiddleware returns a Gin middleware that resolves the X-User-ID
// header against the fixed user set. Identity is supplied externally; this
// is not authentication, only attribution of writes and comments.
func IdentityMiddleware(res Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-User-ID")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
			return
		}
		if !res.Known(id) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unknown user"})
			return
		}
		c.Set(UserKey, id)
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextIDToken is the gin context key under which the raw bearer token is
// stored. Token verification happens inside the command executor's guard,
// not here; this middleware only enforces the header shape.
const ContextIDToken = "idToken"

// RequireBearer extracts the bearer token from the Authorization header and
// stores it in the request context for the admin handlers.
func RequireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		c.Set(ContextIDToken, parts[1])
		c.Next()
	}
}

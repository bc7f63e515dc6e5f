package middleware

import (
	"channel-gate/auth"
	"channel-gate/errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PublisherAuthMiddleware validates the publisher bearer token.
// With an empty key every request goes through.
func PublisherAuthMiddleware(key []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(key) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		// Format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := auth.ValidateToken(key, parts[1])
		if err != nil {
			_ = c.Error(fmt.Errorf("%w: %v", errors.ErrUnauthorized, err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("publisher", claims.Publisher)
		c.Next()
	}
}

// GetPublisher extracts the authenticated publisher from the Gin context
func GetPublisher(c *gin.Context) (string, bool) {
	publisher, exists := c.Get("publisher")
	if !exists {
		return "", false
	}
	return publisher.(string), true
}

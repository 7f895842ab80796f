package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// APIKeyHeader carries the shared API key
	APIKeyHeader = "X-Wakeup-Key"
	// AuthenticatedKey is set in the context once a request passed APIKey
	AuthenticatedKey = "authenticated"
)

// APIKey verifies the shared key from the X-Wakeup-Key header or an
// Authorization Bearer header. An empty key disables the check.
func APIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(APIKeyHeader)
		if provided == "" {
			const bearerPrefix = "Bearer "
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
				provided = strings.TrimPrefix(auth, bearerPrefix)
			}
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
				"code":  "UNAUTHORIZED",
			})
			c.Abort()
			return
		}

		c.Set(AuthenticatedKey, true)
		c.Next()
	}
}

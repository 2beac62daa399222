package middleware

import (
	"crypto/subtle"
	"github.com/gin-gonic/gin"
	"net/http"
)

const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware accepts requests carrying the shared key. Other requests go to fallback when set, e.g. JWT auth.
func APIKeyMiddleware(apiKey string, fallback gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(APIKeyHeader)
		if apiKey != "" && provided != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) == 1 {
			c.Next()
			return
		}
		if fallback != nil && provided == "" {
			fallback(c)
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
	}
}

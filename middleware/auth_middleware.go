package middleware

import (
	"fmt"
	"github.com/MicahParks/keyfunc/v2"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"net/http"
	"slices"
	"strings"
	"time"
)

const (
	ContextUserIDKey = "userID"
	ContextScopesKey = "scopes"
)

type CustomClaims struct {
	jwt.RegisteredClaims
	Scopes string `json:"scope,omitempty"`
}

type AuthHandler interface {
	AuthMiddleware() gin.HandlerFunc
}

type authHandler struct {
	jwks          *keyfunc.JWKS
	requiredScope string
}

// NewAuthHandler validates bearer tokens against the JWKS at jwksURL. An empty requiredScope accepts any valid token.
func NewAuthHandler(logger outbound.LoggerPort, jwksURL string, requiredScope string) (AuthHandler, error) {
	options := keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			logger.Error(err, "There was an error with the jwt.Keyfunc")
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}

	jwks, err := keyfunc.Get(jwksURL, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS from %s: %w", jwksURL, err)
	}

	return &authHandler{jwks: jwks, requiredScope: requiredScope}, nil
}

func (h *authHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		var claims CustomClaims
		token, err := jwt.ParseWithClaims(tokenString, &claims, h.jwks.Keyfunc)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		scopes := strings.Fields(claims.Scopes)
		if h.requiredScope != "" && !slices.Contains(scopes, h.requiredScope) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing scope " + h.requiredScope})
			return
		}

		c.Set(ContextUserIDKey, claims.Subject)
		c.Set(ContextScopesKey, scopes)
		c.Next()
	}
}

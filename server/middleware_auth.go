package fulfillmentserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	// adminRole is required for mutating routes when auth is enabled.
	adminRole = "admin"
	// ContextSubjectKey exposes the authenticated subject to handlers.
	ContextSubjectKey = "auth.subject"
)

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates a Bearer JWT signed with secret and requires the
// admin role for mutating routes. An empty secret disables the guard, which
// keeps local development and tests friction-free.
func AuthMiddleware(secret string) gin.HandlerFunc {
	if strings.TrimSpace(secret) == "" {
		return func(c *gin.Context) { c.Next() }
	}
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader(authorizationHeader)
		if !strings.HasPrefix(header, bearerPrefix) {
			respondProblem(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		claims := &accessClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			respondProblem(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
		if claims.Role != adminRole {
			respondProblem(c, http.StatusForbidden, "admin role required")
			c.Abort()
			return
		}
		c.Set(ContextSubjectKey, claims.Subject)
		c.Next()
	}
}

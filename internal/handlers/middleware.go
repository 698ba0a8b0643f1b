package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Brownie44l1/kasgo/internal/auth"
	"github.com/gin-gonic/gin"
)

// Scopes checked by the gateway routes
const (
	ScopeNodeRPC = "node:rpc"
	ScopeArchive = "history:archive"
)

const claimsKey = "claims"

// AuthMiddleware requires a valid gateway bearer token on every request.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			respondError(c, http.StatusUnauthorized, "Unauthorized", errors.New("bearer token required"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateJWT(strings.TrimSpace(token), secret)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Unauthorized", err)
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireScope rejects tokens that do not grant scope. Requests that carry no
// claims pass, so routes stay open when the gateway runs without auth.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(claimsKey)
		if !ok {
			c.Next()
			return
		}
		claims, _ := v.(*auth.Claims)
		if claims == nil || !claims.HasScope(scope) {
			respondError(c, http.StatusForbidden, "Forbidden", errors.New("token lacks scope "+scope))
			c.Abort()
			return
		}
		c.Next()
	}
}

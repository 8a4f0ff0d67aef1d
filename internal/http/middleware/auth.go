// README: Bearer-token auth middleware; trusts the verified role claim downstream.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quickbite/internal/infra"
)

const (
	ctxUID   = "auth_uid"
	ctxRole  = "auth_role"
	ctxAdmin = "auth_admin"
)

func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUID, token.Subject)
		c.Set(ctxRole, token.Role)
		c.Set(ctxAdmin, token.IsAdmin)
		c.Next()
	}
}

func CallerUID(c *gin.Context) string {
	return c.GetString(ctxUID)
}

func CallerRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

func CallerIsAdmin(c *gin.Context) bool {
	return c.GetBool(ctxAdmin)
}

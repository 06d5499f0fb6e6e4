package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/core/auth"
	resp "staffdesk/internal/transport/http/response"
)

const (
	KeyUserID  = "userId"
	KeyIsAdmin = "isAdmin"
)

// AuthJWT verifies the bearer token before any data access happens. With
// requireAdmin set, non-admin tokens are rejected with a forbidden code.
func AuthJWT(j *auth.JWTer, requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireAdmin && !claims.Admin {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "admin only"))
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyIsAdmin, claims.Admin)
		c.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mirefly/paperdiary/internal/pkg/errcode"
	"github.com/mirefly/paperdiary/internal/pkg/jwt"
	"github.com/mirefly/paperdiary/internal/pkg/response"
)

const ContextRoleKey = "role"

// RoleAuth parses the session token and stashes the selected role.
// This is not authentication in any real sense, the token only pins
// down which mode the book was opened in.
func RoleAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, errcode.ErrUnauthorized, "missing authorization")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, errcode.ErrUnauthorized, "invalid authorization")
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(parts[1], secret)
		if err != nil {
			response.Error(c, errcode.ErrUnauthorized, "invalid token")
			c.Abort()
			return
		}
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// RequireAuthor gates mutating routes; readers may only browse and
// export.
func RequireAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Get(ContextRoleKey)
		role, _ := value.(string)
		if role != jwt.RoleAuthor {
			response.Error(c, errcode.ErrForbidden, "author role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

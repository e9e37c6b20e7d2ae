package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HusseinMoukalled/meetingroom/pkg/auth"
	"github.com/HusseinMoukalled/meetingroom/pkg/response"
)

const (
	// UsernameKey is the context key for the authenticated username
	UsernameKey = "username"
	// RoleKey is the context key for the authenticated role
	RoleKey = "role"
)

// Auth verifies the Bearer token and stores the caller's identity in the
// request context.
func Auth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			response.Unauthorized(c, "authorization header must be a bearer token")
			c.Abort()
			return
		}

		claims, err := tokens.VerifyToken(tokenStr)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UsernameKey, claims.Username)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin rejects callers whose role is not admin. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleKey) != "admin" {
			response.Forbidden(c, "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Identity returns the authenticated username and role from the context.
func Identity(c *gin.Context) (username, role string) {
	return c.GetString(UsernameKey), c.GetString(RoleKey)
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Headers set by the gateway after it authenticates the caller
const (
	ActorIDHeader   = "X-Actor-ID"
	ActorRoleHeader = "X-Actor-Role"
)

// RoleAdmin may approve orders and payments and work the books
const RoleAdmin = "admin"

// Actor reads the authenticated caller from gateway headers and rejects
// requests that carry none.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(ActorIDHeader))
		id, err := strconv.ParseUint(raw, 10, 32)
		if raw == "" || err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": ActorIDHeader + " header is required",
			})
			return
		}

		c.Set("actorID", uint(id))
		c.Set("actorRole", strings.ToLower(strings.TrimSpace(c.GetHeader(ActorRoleHeader))))
		c.Next()
	}
}

// GetActorID extracts the actor ID from the Gin context
func GetActorID(c *gin.Context) uint {
	id, exists := c.Get("actorID")
	if !exists {
		return 0
	}
	return id.(uint)
}

// GetActorRole extracts the actor role from the Gin context
func GetActorRole(c *gin.Context) string {
	role, exists := c.Get("actorRole")
	if !exists {
		return ""
	}
	return role.(string)
}

// RequireRole returns a middleware that requires specific roles
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetActorRole(c)
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "role " + strconv.Quote(role) + " may not access this resource",
		})
	}
}

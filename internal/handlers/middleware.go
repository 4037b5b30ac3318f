package handlers

import (
	"net/http"
	"strings"

	"medclinic/internal/models"

	"github.com/gin-gonic/gin"
)

// Context keys set by identityMiddleware.
const (
	ctxUserID = "userId"
	ctxRole   = "userRole"
)

func (h *Handler) identityMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userID, role, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, role)
	c.Next()
}

// requireDoctor gates doctor-only routes. Must run after identityMiddleware.
func (h *Handler) requireDoctor(c *gin.Context) {
	if c.GetString(ctxRole) != models.RoleDoctor {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "doctor role required",
		})
		return
	}
	c.Next()
}

// callerID returns the authenticated user's ID from the Gin context.
func callerID(c *gin.Context) int {
	return c.GetInt(ctxUserID)
}

// callerRole returns the authenticated user's role from the Gin context.
func callerRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// clientIP returns the request's client address, honoring X-Forwarded-For.
func clientIP(c *gin.Context) string {
	return c.ClientIP()
}

// userAgent returns the User-Agent header or a safe default.
func userAgent(c *gin.Context) string {
	if ua := c.Request.UserAgent(); ua != "" {
		return ua
	}
	return "unknown"
}

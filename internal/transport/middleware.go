package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ownerKey is the gin context key the owner id is stored under.
const ownerKey = "owner_id"

// OwnerHeader carries the authenticated owner identity, set by the upstream
// auth proxy. Everything behind this middleware is scoped to that owner.
const OwnerHeader = "X-Owner-ID"

// OwnerAuth rejects requests that arrive without an owner identity.
// Authentication itself happens upstream — this is the trust boundary, not a
// session layer.
func OwnerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := c.GetHeader(OwnerHeader)
		if owner == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing owner identity"})
			return
		}
		c.Set(ownerKey, owner)
		c.Next()
	}
}

// Owner returns the authenticated owner id stored by OwnerAuth.
func Owner(c *gin.Context) string {
	return c.GetString(ownerKey)
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.Method == "OPTIONS" {
			return
		}

		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+OwnerHeader)
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

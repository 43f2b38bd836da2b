package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/dailyos/internal/logger"
)

const userKey = "dailyos_user"

// Auth resolves "Authorization: Bearer <token>" to a user id. Requests with
// a missing or unknown token stop here with 401.
func Auth(tokens Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		user := ""
		if ok {
			user = tokens.User(strings.TrimSpace(token))
		}
		if user == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// userID returns the user set by Auth, or "" outside an authenticated group.
func userID(c *gin.Context) string {
	return c.GetString(userKey)
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		if user := userID(c); user != "" {
			fields = append(fields, "user", user)
		}
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", fields...)
			return
		}
		logger.Debug("Request served", fields...)
	}
}

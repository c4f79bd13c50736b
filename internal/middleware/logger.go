package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adist/cinecircle/internal/pkg/logger"
)

var skipPaths = map[string]bool{
	"/health": true,
}

// Logger logs one line per request with method, path, status and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipPaths[path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		userID := c.GetString("userID")

		switch {
		case status >= 500:
			logger.Error("%s %s -> %d (%v) user=%s", c.Request.Method, path, status, latency, userID)
		case status >= 400:
			logger.Warn("%s %s -> %d (%v) user=%s", c.Request.Method, path, status, latency, userID)
		default:
			logger.Info("%s %s -> %d (%v)", c.Request.Method, path, status, latency)
		}
	}
}

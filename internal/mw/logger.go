package mw

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one debug record per request to logger.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("api request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client", c.ClientIP(),
			"elapsed", time.Since(start),
		)
	}
}

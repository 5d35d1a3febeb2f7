package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"pharmarx/src/infra/logger"
)

// Logging emits one structured log line per request with method, path,
// status, duration and the correlation id.
func Logging(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if query := c.Request.URL.RawQuery; query != "" {
			path = path + "?" + query
		}

		c.Next()

		reqLog := logger.WithRequestID(log, GetRequestID(c))

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		// Choose log level based on status code
		switch {
		case status >= 500:
			reqLog.Error("request", attrs...)
		case status >= 400:
			reqLog.Warn("request", attrs...)
		default:
			reqLog.Info("request", attrs...)
		}
	}
}

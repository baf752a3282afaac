package middleware

import (
	"expvar"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/platform/apierr"
)

var (
	requestsTotal  = expvar.NewInt("requests_total")
	requestsErrors = expvar.NewInt("requests_errors_total")
	requestsByCode = expvar.NewMap("requests_by_status")
)

// AccessLog writes one slog line per request and bumps the /debug/vars counters.
func AccessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		requestsTotal.Add(1)
		requestsByCode.Add(http.StatusText(status), 1)
		if status >= http.StatusBadRequest {
			requestsErrors.Add(1)
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(c.Request.Context(), level, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("client_ip", c.ClientIP()),
			slog.String("request_id", c.GetString(apierr.RequestIDKey)),
		)
	}
}

package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

const logFieldsKey = "logFields"

// SetLogField adds a field to the request.complete line, e.g. the export format or the
// resume id a handler produced.
func SetLogField(c *gin.Context, key string, value any) {
	fields, _ := c.Get(logFieldsKey)
	m, ok := fields.(map[string]any)
	if !ok {
		m = map[string]any{}
		c.Set(logFieldsKey, m)
	}
	m[key] = value
}

// Logging emits one request.complete line per request, skipping preflights.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		line := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"bytes":       c.Writer.Size(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"is_guest":    IsGuest(c),
			"client_ip":   c.ClientIP(),
		}
		if extra, ok := c.Get(logFieldsKey); ok {
			for k, v := range extra.(map[string]any) {
				line[k] = v
			}
		}
		telemetry.Info("request.complete", line)
	}
}

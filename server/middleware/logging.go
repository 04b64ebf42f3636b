package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/llmgate/logger"
	"github.com/kbukum/llmgate/observability"
)

const slowRequest = 500 * time.Millisecond

// RequestLogger logs every completed request and records it on metrics,
// which may be nil. Probe paths are measured but not logged.
func RequestLogger(log *logger.Logger, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if metrics != nil {
			metrics.RecordRequestStart(ctx)
		}
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if metrics != nil {
			metrics.RecordRequestEnd(ctx, route, c.Request.Method, status, latency)
		}
		if isProbePath(c.Request.URL.Path) {
			return
		}

		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			logger.FieldStatus, status,
			logger.FieldDuration, latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if latency > slowRequest {
			fields["slow"] = true
		}
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.String()
		}
		logByStatus(log.WithContext(ctx), fields, status)
	}
}

func isProbePath(path string) bool {
	switch path {
	case "/health", "/ready", "/alive":
		return true
	}
	return false
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}

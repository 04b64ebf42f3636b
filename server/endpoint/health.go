package endpoint

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/llmgate/chat"
	"github.com/kbukum/llmgate/component"
	apperrors "github.com/kbukum/llmgate/errors"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// ProviderProber checks one provider. chat.HealthProbe implements it.
type ProviderProber interface {
	Check(ctx context.Context, name string) chat.HealthResult
}

// SystemHealth is the body of GET /health.
type SystemHealth struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ProviderHealth is the body of GET /health/:provider.
type ProviderHealth struct {
	Provider string         `json:"provider"`
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Metrics  HealthMetrics  `json:"metrics"`
	Error    *HealthFailure `json:"error"`
}

// HealthMetrics carries the probe latency, formatted like "0.412s".
type HealthMetrics struct {
	ResponseTime string `json:"responseTime"`
}

// HealthFailure repeats the failure message of an unhealthy provider.
type HealthFailure struct {
	Message string `json:"message"`
}

// Health reports that the process is serving.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, SystemHealth{Status: "OK", Message: "System operational"})
	}
}

// ProviderHealthCheck probes the provider named in the path. Unsupported
// names are rejected with 400 before any probe; every other outcome is a
// 200 whose status field says OK or ERROR.
func ProviderHealthCheck(prober ProviderProber, cfg *chat.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("provider")
		if !cfg.IsSupported(name) {
			RespondWithError(c, apperrors.UnsupportedProvider(name, cfg.SupportedProviders))
			return
		}

		res := prober.Check(c.Request.Context(), name)
		body := ProviderHealth{
			Provider: name,
			Status:   "OK",
			Message:  res.Message,
			Metrics:  HealthMetrics{ResponseTime: fmt.Sprintf("%.3fs", res.Elapsed.Seconds())},
		}
		if !res.OK {
			body.Status = "ERROR"
			body.Error = &HealthFailure{Message: res.Message}
		}
		c.JSON(http.StatusOK, body)
	}
}

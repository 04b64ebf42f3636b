package bootstrap

import (
	"context"
	"time"

	"github.com/kbukum/llmgate/logger"
)

// logSummary logs one line per component health plus the startup time.
func (a *App[C]) logSummary(ctx context.Context, took time.Duration) {
	health := a.Components.HealthAll(ctx)
	for _, h := range health {
		fields := logger.Fields(logger.FieldComponent, h.Name, logger.FieldStatus, string(h.Status))
		if h.Message != "" {
			fields["message"] = h.Message
		}
		a.Logger.Info("Component status", fields)
	}
	a.Logger.Info("Application started", logger.Fields(
		"name", a.Name,
		"version", a.Version,
		"components", len(health),
		logger.FieldDuration, took.Milliseconds(),
	))
}

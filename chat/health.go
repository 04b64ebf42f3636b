package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/llmgate/errors"
	"github.com/kbukum/llmgate/httpclient"
	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/logger"
	"github.com/kbukum/llmgate/observability"
	"github.com/kbukum/llmgate/resilience"
)

// Probe sent to every provider by the health check.
const (
	ProbeSystem    = "You are a calculator. Answer math questions with just the number, no explanation."
	ProbePrompt    = "What is 2+2? Reply with just the number."
	ProbeMaxTokens = 5
)

const (
	msgHealthy       = "Provider is healthy"
	msgEmptyResponse = "Empty response from model"
)

// HealthResult is the outcome of one provider probe.
type HealthResult struct {
	Provider string
	OK       bool
	Message  string
	Elapsed  time.Duration
	Model    string
	Reply    string
}

// HealthProbe checks providers with a fixed one-token question.
type HealthProbe struct {
	registry *Registry
	log      *logger.Logger
	observer Observer
	now      func() time.Time
	probe    llm.Probe
}

// NewHealthProbe creates a HealthProbe over registry.
func NewHealthProbe(registry *Registry, opts ...Option) *HealthProbe {
	o := buildOptions(opts)
	return &HealthProbe{
		registry: registry,
		log:      o.log.WithComponent("health"),
		observer: o.observer,
		now:      o.now,
		probe: llm.Probe{
			System:    ProbeSystem,
			Prompt:    ProbePrompt,
			MaxTokens: ProbeMaxTokens,
		},
	}
}

// Check probes one provider. It never returns an error: every failure,
// including an unknown provider name, is reported in the result.
func (p *HealthProbe) Check(ctx context.Context, name string) HealthResult {
	res := HealthResult{Provider: name}

	if !p.registry.cfg.IsSupported(name) {
		res.Message = fmt.Sprintf("Invalid provider. Supported: %s", strings.Join(p.registry.Supported(), ", "))
		return res
	}

	adapter, err := p.registry.GetOrInit(name)
	if err != nil {
		res.Message = describeError(err)
		return res
	}
	res.Model = adapter.Settings().DefaultModel

	ctx, span := observability.StartSpan(ctx, observability.SpanHealthProbe, trace.WithAttributes(
		attribute.String(observability.AttrProvider, name),
		attribute.String(observability.AttrModel, res.Model),
	))
	defer span.End()

	start := p.now()
	reply, err := adapter.HealthCheck(ctx, res.Model, p.probe)
	res.Elapsed = p.now().Sub(start)

	switch {
	case err != nil:
		res.Message = describeError(err)
		observability.SetSpanError(span, err)
	case reply == "":
		res.Message = msgEmptyResponse
	default:
		res.OK = true
		res.Reply = reply
		res.Message = msgHealthy
	}

	status := "ok"
	if !res.OK {
		status = "error"
	}
	span.SetAttributes(attribute.String(observability.AttrStatus, status))
	if p.observer != nil {
		p.observer.RecordHealth(ctx, name, res.OK, res.Elapsed)
	}

	fields := logger.Fields(
		logger.FieldProvider, name,
		logger.FieldModel, res.Model,
		logger.FieldDuration, res.Elapsed.Milliseconds(),
	)
	if res.OK {
		p.log.WithContext(ctx).Info("health probe passed", fields)
	} else {
		p.log.WithContext(ctx).Warn("health probe failed: "+res.Message, fields)
	}
	return res
}

// describeError renders err as "<Kind>: <text>".
func describeError(err error) string {
	return errorKind(err) + ": " + err.Error()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), httpclient.IsTimeout(err):
		return "TimeoutError"
	case httpclient.IsConnection(err):
		return "ConnectionError"
	case httpclient.IsAuth(err):
		return "AuthenticationError"
	case httpclient.IsRateLimit(err):
		return "RateLimitError"
	case errors.Is(err, resilience.ErrCircuitOpen), llm.IsVendorError(err):
		return "UpstreamError"
	case apperrors.HasCode(err, apperrors.ErrCodeUnsupportedProvider),
		apperrors.HasCode(err, apperrors.ErrCodeProviderUnavailable):
		return "ConfigurationError"
	}
	var hErr *httpclient.Error
	if errors.As(err, &hErr) {
		return "UpstreamError"
	}
	return "Error"
}

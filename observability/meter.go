package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/llmgate/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the HTTP request instruments.
type Metrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
}

// NewMetrics creates HTTP request instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter("http.request.total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.request.total counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http.request.duration",
		metric.WithDescription("Duration of requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.request.duration histogram: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("http.request.active",
		metric.WithDescription("Number of currently active requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.request.active gauge: %w", err)
	}

	return &Metrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestActive:   requestActive,
	}, nil
}

// RecordRequestStart increments the active request count.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements active requests and records the completed request.
func (m *Metrics) RecordRequestEnd(ctx context.Context, route, method string, status int, duration time.Duration) {
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("method", method),
		attribute.Int("status", status),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("method", method),
	))
}

// Stream outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeFallback  = "fallback"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// StreamMetrics holds the chat streaming instruments.
type StreamMetrics struct {
	streams        metric.Int64Counter
	fallbacks      metric.Int64Counter
	chunks         metric.Int64Counter
	streamDuration metric.Float64Histogram
	healthDuration metric.Float64Histogram
}

// NewStreamMetrics creates chat streaming instruments on the given meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	streams, err := meter.Int64Counter("llm.stream.total",
		metric.WithDescription("Completed chat streams by provider and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.stream.total counter: %w", err)
	}

	fallbacks, err := meter.Int64Counter("llm.fallback.total",
		metric.WithDescription("Switches from the default to the fallback model"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.fallback.total counter: %w", err)
	}

	chunks, err := meter.Int64Counter("llm.chunk.total",
		metric.WithDescription("Content chunks forwarded to clients"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.chunk.total counter: %w", err)
	}

	streamDuration, err := meter.Float64Histogram("llm.stream.duration",
		metric.WithDescription("Duration of chat streams in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.stream.duration histogram: %w", err)
	}

	healthDuration, err := meter.Float64Histogram("llm.health.duration",
		metric.WithDescription("Duration of provider health probes in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.health.duration histogram: %w", err)
	}

	return &StreamMetrics{
		streams:        streams,
		fallbacks:      fallbacks,
		chunks:         chunks,
		streamDuration: streamDuration,
		healthDuration: healthDuration,
	}, nil
}

// RecordFallback counts one switch to the fallback model.
func (m *StreamMetrics) RecordFallback(ctx context.Context, provider string) {
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}

// RecordStreamEnd records a finished stream.
func (m *StreamMetrics) RecordStreamEnd(ctx context.Context, provider, model, outcome string, chunks int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	)
	m.streams.Add(ctx, 1, attrs)
	m.chunks.Add(ctx, int64(chunks), metric.WithAttributes(attribute.String("provider", provider)))
	m.streamDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordHealth records one health probe.
func (m *StreamMetrics) RecordHealth(ctx context.Context, provider string, ok bool, duration time.Duration) {
	m.healthDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.Bool("ok", ok),
	))
}

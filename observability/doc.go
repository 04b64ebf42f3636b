// Package observability provides OpenTelemetry tracing and metrics integration.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, cfg.TracerConfig("llmgate", version, env))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanChatAttempt)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, cfg.MeterConfig("llmgate", version, env))
//	defer mp.Shutdown(ctx)
//
//	sm, err := observability.NewStreamMetrics(observability.Meter("llmgate"))
//	sm.RecordStreamEnd(ctx, "gpt", "gpt-4o", observability.OutcomeOK, chunks, elapsed)
//
// When Config.Enabled is false nothing is initialized and the global no-op
// providers absorb spans and measurements.
package observability

// Package logger provides structured logging for llmgate on top of zerolog.
//
// Loggers are created from a Config, tagged per component with WithComponent,
// and enriched with request-scoped identifiers through WithContext. Named
// loggers can be looked up with Get:
//
//	log := logger.Get("chat")
//	log.WithContext(ctx).Info("stream started", logger.Fields(logger.FieldProvider, "gpt"))
package logger

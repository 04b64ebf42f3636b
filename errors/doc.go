// Package errors defines the application error type shared by every llmgate
// package. Each AppError carries a machine-readable code, an HTTP status the
// server layer maps it to, and a retryable flag.
//
// Provider failures use a dedicated set of codes:
//
//	UNSUPPORTED_PROVIDER   provider name not enabled in this deployment
//	PROVIDER_UNAVAILABLE   provider enabled but its adapter cannot be built
//	UPSTREAM_STREAM_ERROR  vendor call failed during a streaming attempt
//	FALLBACK_EXHAUSTED     default and fallback models both failed
//	VALIDATION_ERROR       malformed or oversized conversation
package errors

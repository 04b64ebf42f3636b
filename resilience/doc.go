// Package resilience provides the fault-tolerance primitives used around
// vendor and infrastructure calls.
//
//   - Retry: retries an operation with exponential backoff and jitter. Used for
//     database and redis connection setup and for non-streaming vendor calls.
//   - CircuitBreaker: fails fast once a dependency keeps failing. Each provider
//     client owns one, so an open breaker on the default model sends the
//     orchestrator straight to the fallback model.
package resilience

// Package server is the llmgate HTTP server: Gin served over HTTP/1.1 and
// h2c on one port, with lifecycle hooks for the component registry.
//
// # Middleware
//
// ApplyMiddleware installs, in order (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-ID generation and propagation
//   - CORS: cross-origin headers and preflight
//   - BodySizeLimit: request body cap
//   - RequestLogger: request logging and HTTP metrics
//   - RateLimit: fixed-window request budget per client IP
//
// # Endpoints
//
// server/endpoint holds the handlers: the chat SSE stream, system and
// provider health, conversation queries, and the /alive, /ready and
// /version probes registered by RegisterDefaultEndpoints.
package server

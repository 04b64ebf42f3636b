// Package component manages the lifecycle of infrastructure components.
//
// cmd/llmgate registers the database, redis and HTTP server components in
// dependency order; StartAll brings them up and StopAll tears them down in
// reverse on shutdown.
package component

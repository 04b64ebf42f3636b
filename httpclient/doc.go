// Package httpclient is the outbound HTTP client used by the vendor adapters.
//
// A Client owns one connection pool, applies default headers and
// authentication, classifies failures into typed errors, and optionally
// retries non-streaming requests and guards calls with a circuit breaker.
// Streaming requests bypass the client timeout and hand back an SSE reader
// from the sse subpackage.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.anthropic.com",
//	    Auth:    httpclient.APIKeyAuthHeader(key, "x-api-key"),
//	})
//	stream, err := client.DoStream(ctx, httpclient.Request{Method: http.MethodPost, Path: "/v1/messages", Body: payload})
package httpclient

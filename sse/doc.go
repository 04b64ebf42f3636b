// Package sse frames normalized chat chunks in the outbound Server-Sent Events
// wire format and writes them to HTTP responses.
//
// Every frame is one SSE data event:
//
//	data: {"id":"gpt-1712345678901","delta":{"content":"Hel","model":"gpt-4o"}}
//
// and a successful stream ends with exactly one sentinel:
//
//	data: [DONE]
package sse

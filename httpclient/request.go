package httpclient

import (
	"net/http"

	"github.com/kbukum/llmgate/httpclient/sse"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL if BaseURL is empty.
	Path string
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the request body. Accepts []byte, string, or any value
	// that will be JSON-encoded.
	Body any
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// StreamResponse wraps an open text/event-stream response.
type StreamResponse struct {
	StatusCode int
	Headers    map[string]string
	// SSE reads the events of the response body.
	SSE sse.Reader

	rawResp *http.Response
}

// Close releases the connection. Safe to call more than once.
func (r *StreamResponse) Close() error {
	if r.SSE != nil {
		return r.SSE.Close()
	}
	if r.rawResp != nil && r.rawResp.Body != nil {
		return r.rawResp.Body.Close()
	}
	return nil
}

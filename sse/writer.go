package sse

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
var ErrStreamingUnsupported = errors.New("sse: streaming not supported")

// Writer writes frames to an HTTP response, flushing after each one.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

// NewWriter wraps w. It fails if w cannot flush.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	return &Writer{w: w, flusher: flusher}, nil
}

// Start sets the SSE headers and sends the status line. Called implicitly by
// the first WriteFrame.
func (sw *Writer) Start() {
	if sw.started {
		return
	}
	sw.started = true

	// Streams outlive the server's WriteTimeout.
	_ = http.NewResponseController(sw.w).SetWriteDeadline(time.Time{})

	h := sw.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Disable nginx buffering
	sw.w.WriteHeader(http.StatusOK)
	sw.flusher.Flush()
}

// Started reports whether headers have been sent.
func (sw *Writer) Started() bool { return sw.started }

// WriteFrame writes one pre-rendered frame and flushes it.
func (sw *Writer) WriteFrame(frame string) error {
	sw.Start()
	if _, err := fmt.Fprint(sw.w, frame); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}

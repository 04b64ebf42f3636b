// Package sse reads Server-Sent Events from an HTTP response body.
package sse

import (
	"bufio"
	"io"
	"strings"
	"sync"
)

// maxLineSize bounds one SSE line. Vendor payloads for a single delta are small,
// but error events can carry long JSON bodies.
const maxLineSize = 1 << 20

// Event represents a single server-sent event.
type Event struct {
	// Event is the SSE event type (from "event:" line). Empty for data-only events.
	Event string
	// Data is the event payload. Multi-line data is joined with newlines.
	Data string
	// ID is the event ID (from "id:" line).
	ID string
}

// Reader reads server-sent events from a stream.
type Reader interface {
	// Next returns the next SSE event. Returns io.EOF when the stream ends.
	Next() (*Event, error)
	// Close releases the underlying resources. Safe to call more than once.
	Close() error
}

type reader struct {
	scanner   *bufio.Scanner
	body      io.ReadCloser
	closeOnce sync.Once
	closeErr  error
}

// NewReader creates an SSE reader from a readable stream.
func NewReader(body io.ReadCloser) Reader {
	s := bufio.NewScanner(body)
	s.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &reader{scanner: s, body: body}
}

// Next returns the next SSE event. Returns io.EOF when the stream ends.
func (r *reader) Next() (*Event, error) {
	var event Event
	var hasData bool

	for r.scanner.Scan() {
		line := r.scanner.Text()

		// Blank line terminates an event.
		if line == "" {
			if hasData {
				return &event, nil
			}
			event = Event{}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := parseLine(line)
		switch field {
		case "data":
			if hasData {
				event.Data += "\n" + value
			} else {
				event.Data = value
				hasData = true
			}
		case "event":
			event.Event = value
		case "id":
			event.ID = value
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if hasData {
		return &event, nil
	}
	return nil, io.EOF
}

// Close releases the underlying stream.
func (r *reader) Close() error {
	r.closeOnce.Do(func() { r.closeErr = r.body.Close() })
	return r.closeErr
}

func parseLine(line string) (field, value string) {
	field, value, found := strings.Cut(line, ":")
	if !found {
		return line, ""
	}
	return field, strings.TrimPrefix(value, " ")
}

package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kbukum/llmgate/llm"
)

const (
	dataPrefix = "data: "
	terminator = "\n\n"
	sentinel   = "[DONE]"

	// Done is the terminal frame of a successful stream.
	Done = dataPrefix + sentinel + terminator
)

// ErrMalformedFrame is returned by ParseFrame for input that is not one data frame.
var ErrMalformedFrame = errors.New("sse: malformed frame")

// Delta is the incremental part of an Envelope.
type Delta struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// Envelope is the JSON body of a content frame.
type Envelope struct {
	ID    string `json:"id"`
	Delta Delta  `json:"delta"`
}

// FrameChunk renders one chunk as a data frame.
func FrameChunk(c llm.Chunk) string {
	// Marshal of a struct of strings cannot fail.
	data, _ := json.Marshal(Envelope{ID: c.MessageID, Delta: Delta{Content: c.Content, Model: c.Model}})
	return dataPrefix + string(data) + terminator
}

// FrameDone returns the terminal sentinel frame.
func FrameDone() string { return Done }

// ParseFrame is the inverse of FrameChunk and FrameDone. done is true for the sentinel.
func ParseFrame(frame string) (Envelope, bool, error) {
	if !strings.HasPrefix(frame, dataPrefix) || !strings.HasSuffix(frame, terminator) {
		return Envelope{}, false, ErrMalformedFrame
	}
	body := strings.TrimSuffix(strings.TrimPrefix(frame, dataPrefix), terminator)
	if body == sentinel {
		return Envelope{}, true, nil
	}
	var env Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return Envelope{}, false, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return env, false, nil
}

// SplitFrames splits a raw stream body into frames, keeping terminators.
func SplitFrames(body string) []string {
	var frames []string
	for body != "" {
		i := strings.Index(body, terminator)
		if i < 0 {
			frames = append(frames, body)
			break
		}
		frames = append(frames, body[:i+len(terminator)])
		body = body[i+len(terminator):]
	}
	return frames
}

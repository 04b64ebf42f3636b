package llm

import (
	"strings"
	"time"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	// RoleModel is the assistant role on the Gemini wire.
	RoleModel Role = "model"
)

// Message represents a single chat message.
type Message struct {
	Role      Role       `json:"role" validate:"required,oneof=user assistant system"`
	Content   string     `json:"content" validate:"required"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Model     string     `json:"model,omitempty"`
}

// Conversation is an ordered, chronological list of messages.
type Conversation []Message

// SystemMessages returns the system messages in order.
func (c Conversation) SystemMessages() []Message {
	var out []Message
	for _, m := range c {
		if m.Role == RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// WithoutSystem returns the non-system messages, preserving order.
func (c Conversation) WithoutSystem() []Message {
	out := make([]Message, 0, len(c))
	for _, m := range c {
		if m.Role != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// LastUser returns the most recent user message.
func (c Conversation) LastUser() (Message, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Role == RoleUser {
			return c[i], true
		}
	}
	return Message{}, false
}

// Chunk is one normalized piece of a streamed reply.
type Chunk struct {
	MessageID string `json:"id"`
	Content   string `json:"content"`
	Model     string `json:"model"`
}

// Payload is a conversation already shaped for one vendor's wire format.
type Payload struct {
	// System is the system prompt for vendors that carry it outside the
	// message list. Empty for vendors that inline it.
	System string
	// Messages are in vendor order with vendor role names.
	Messages []Message
}

// Params are the per-call generation parameters.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
	// Seed is sent only by dialects that support deterministic sampling.
	Seed   *int
	Stream bool
}

// Probe is the fixed question a health check asks.
type Probe struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Text returns the message content with surrounding whitespace removed.
func (m Message) Text() string { return strings.TrimSpace(m.Content) }

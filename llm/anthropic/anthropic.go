// Package anthropic implements the llm.Dialect for the Anthropic Messages API.
package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kbukum/llmgate/httpclient"
	"github.com/kbukum/llmgate/httpclient/sse"
	"github.com/kbukum/llmgate/llm"
)

const (
	// DialectName is the registered dialect name.
	DialectName = "anthropic"

	// APIVersion is sent in the anthropic-version header.
	APIVersion = "2023-06-01"

	defaultBaseURL = "https://api.anthropic.com"
	messagesPath   = "/v1/messages"
)

// Stream event types.
const (
	eventContentBlockDelta = "content_block_delta"
	eventMessageStop       = "message_stop"
	eventError             = "error"
	deltaText              = "text_delta"
)

func init() {
	llm.RegisterDialect(DialectName, Dialect{})
}

// Dialect speaks the Anthropic Messages wire format.
type Dialect struct{}

func (Dialect) Name() string           { return DialectName }
func (Dialect) DefaultBaseURL() string { return defaultBaseURL }

func (Dialect) Auth(apiKey string) *httpclient.AuthConfig {
	return httpclient.APIKeyAuthHeader(apiKey, "x-api-key")
}

func (Dialect) Headers() map[string]string {
	return map[string]string{"anthropic-version": APIVersion}
}

// FormatMessages drops system messages from the list; systemPrompt travels in
// the top-level system field.
func (Dialect) FormatMessages(conv llm.Conversation, systemPrompt string) llm.Payload {
	rest := conv.WithoutSystem()
	msgs := make([]llm.Message, len(rest))
	for i, m := range rest {
		msgs[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return llm.Payload{System: systemPrompt, Messages: msgs}
}

func (Dialect) Endpoint(_ string, _ bool) llm.Endpoint {
	return llm.Endpoint{Path: messagesPath}
}

// --- wire types ---

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error *apiError `json:"error"`
}

type messagesResponse struct {
	Type    string `json:"type"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *apiError `json:"error"`
}

func (Dialect) BuildRequest(p llm.Payload, params llm.Params) (any, error) {
	if params.Model == "" {
		return nil, fmt.Errorf("anthropic: model is required")
	}
	if params.MaxTokens <= 0 {
		return nil, fmt.Errorf("anthropic: max_tokens is required")
	}
	msgs := make([]message, len(p.Messages))
	for i, m := range p.Messages {
		msgs[i] = message{Role: string(m.Role), Content: m.Content}
	}
	// Seed is not supported by this vendor.
	return messagesRequest{
		Model:       params.Model,
		System:      p.System,
		Messages:    msgs,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		Stream:      params.Stream,
	}, nil
}

func (Dialect) ParseStreamEvent(ev *sse.Event) (string, bool, error) {
	data := strings.TrimSpace(ev.Data)
	if data == "" {
		return "", ev.Event == eventMessageStop, nil
	}

	var se streamEvent
	if err := json.Unmarshal([]byte(data), &se); err != nil {
		return "", false, fmt.Errorf("anthropic: decode stream event: %w", err)
	}
	typ := se.Type
	if typ == "" {
		typ = ev.Event
	}

	switch typ {
	case eventContentBlockDelta:
		if se.Delta.Type == deltaText {
			return se.Delta.Text, false, nil
		}
	case eventMessageStop:
		return "", true, nil
	case eventError:
		ve := &llm.VendorError{Vendor: DialectName, Message: "stream error"}
		if se.Error != nil {
			ve.Type, ve.Message = se.Error.Type, se.Error.Message
		}
		return "", false, ve
	}
	return "", false, nil
}

func (Dialect) ParseResponse(body []byte) (string, error) {
	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}
	if resp.Error != nil {
		return "", &llm.VendorError{Vendor: DialectName, Type: resp.Error.Type, Message: resp.Error.Message}
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// Package openai implements the llm.Dialect for the OpenAI chat completions API.
//
// Importing the package registers the "openai" dialect:
//
//	import _ "github.com/kbukum/llmgate/llm/openai"
package openai

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
	DialectName = "openai"

	defaultBaseURL = "https://api.openai.com"
	chatPath       = "/v1/chat/completions"
	doneMarker     = "[DONE]"
)

func init() {
	llm.RegisterDialect(DialectName, New(defaultBaseURL))
}

// Dialect speaks the OpenAI chat completions wire format. Groq and other
// compatible vendors reuse it with a different base URL.
type Dialect struct {
	name    string
	baseURL string
}

// New returns an OpenAI-compatible dialect with the given default base URL.
func New(baseURL string) *Dialect {
	return &Dialect{name: DialectName, baseURL: baseURL}
}

// Named returns a compatible dialect registered under another name.
func Named(name, baseURL string) *Dialect {
	return &Dialect{name: name, baseURL: baseURL}
}

func (d *Dialect) Name() string           { return d.name }
func (d *Dialect) DefaultBaseURL() string { return d.baseURL }

func (d *Dialect) Auth(apiKey string) *httpclient.AuthConfig {
	return httpclient.BearerAuth(apiKey)
}

func (d *Dialect) Headers() map[string]string { return nil }

// FormatMessages puts systemPrompt in one leading system message followed by
// the non-system messages in order.
func (d *Dialect) FormatMessages(conv llm.Conversation, systemPrompt string) llm.Payload {
	rest := conv.WithoutSystem()
	msgs := make([]llm.Message, 0, len(rest)+1)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, m := range rest {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	return llm.Payload{Messages: msgs}
}

func (d *Dialect) Endpoint(_ string, _ bool) llm.Endpoint {
	return llm.Endpoint{Path: chatPath}
}

// --- wire types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
	Seed        *int          `json:"seed,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

func (d *Dialect) BuildRequest(p llm.Payload, params llm.Params) (any, error) {
	if params.Model == "" {
		return nil, fmt.Errorf("%s: model is required", d.name)
	}
	msgs := make([]chatMessage, len(p.Messages))
	for i, m := range p.Messages {
		msgs[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	return chatRequest{
		Model:       params.Model,
		Messages:    msgs,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
		Stream:      params.Stream,
		Seed:        params.Seed,
	}, nil
}

func (d *Dialect) ParseStreamEvent(ev *sse.Event) (string, bool, error) {
	data := strings.TrimSpace(ev.Data)
	if data == "" {
		return "", false, nil
	}
	if data == doneMarker {
		return "", true, nil
	}

	var chunk streamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return "", false, fmt.Errorf("%s: decode stream chunk: %w", d.name, err)
	}
	if chunk.Error != nil {
		return "", false, &llm.VendorError{Vendor: d.name, Type: chunk.Error.Type, Message: chunk.Error.Message}
	}
	if len(chunk.Choices) == 0 {
		return "", false, nil
	}
	return chunk.Choices[0].Delta.Content, false, nil
}

func (d *Dialect) ParseResponse(body []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", d.name, err)
	}
	if resp.Error != nil {
		return "", &llm.VendorError{Vendor: d.name, Type: resp.Error.Type, Message: resp.Error.Message}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

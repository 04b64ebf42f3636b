// Package gemini implements the llm.Dialect for the Google Generative Language API.
package gemini

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/kbukum/llmgate/httpclient"
	"github.com/kbukum/llmgate/httpclient/sse"
	"github.com/kbukum/llmgate/llm"
)

const (
	// DialectName is the registered dialect name.
	DialectName = "gemini"

	defaultBaseURL = "https://generativelanguage.googleapis.com"
)

func init() {
	llm.RegisterDialect(DialectName, Dialect{})
}

// Dialect speaks the Gemini generateContent wire format.
type Dialect struct{}

func (Dialect) Name() string           { return DialectName }
func (Dialect) DefaultBaseURL() string { return defaultBaseURL }

func (Dialect) Auth(apiKey string) *httpclient.AuthConfig {
	return httpclient.APIKeyAuthHeader(apiKey, "x-goog-api-key")
}

func (Dialect) Headers() map[string]string { return nil }

// HealthViaStream reports that health checks drain a stream.
func (Dialect) HealthViaStream() bool { return true }

// FormatMessages drops system messages and maps assistant to model.
// systemPrompt travels in systemInstruction.
func (Dialect) FormatMessages(conv llm.Conversation, systemPrompt string) llm.Payload {
	rest := conv.WithoutSystem()
	msgs := make([]llm.Message, len(rest))
	for i, m := range rest {
		role := llm.RoleUser
		if m.Role == llm.RoleAssistant {
			role = llm.RoleModel
		}
		msgs[i] = llm.Message{Role: role, Content: m.Content}
	}
	return llm.Payload{System: systemPrompt, Messages: msgs}
}

func (Dialect) Endpoint(model string, stream bool) llm.Endpoint {
	base := "/v1beta/models/" + url.PathEscape(model)
	if stream {
		return llm.Endpoint{
			Path:  base + ":streamGenerateContent",
			Query: map[string]string{"alt": "sse"},
		}
	}
	return llm.Endpoint{Path: base + ":generateContent"}
}

// --- wire types ---

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (Dialect) BuildRequest(p llm.Payload, params llm.Params) (any, error) {
	if params.Model == "" {
		return nil, fmt.Errorf("gemini: model is required")
	}
	contents := make([]content, len(p.Messages))
	for i, m := range p.Messages {
		contents[i] = content{Role: string(m.Role), Parts: []part{{Text: m.Content}}}
	}
	req := generateRequest{
		Contents: contents,
		GenerationConfig: generationConfig{
			Temperature:     params.Temperature,
			MaxOutputTokens: params.MaxTokens,
		},
	}
	if p.System != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: p.System}}}
	}
	return req, nil
}

func (Dialect) ParseStreamEvent(ev *sse.Event) (string, bool, error) {
	data := strings.TrimSpace(ev.Data)
	if data == "" {
		return "", false, nil
	}
	text, err := parse([]byte(data))
	return text, false, err
}

func (Dialect) ParseResponse(body []byte) (string, error) {
	return parse(body)
}

func parse(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if resp.Error != nil {
		return "", &llm.VendorError{Vendor: DialectName, Type: resp.Error.Status, Message: resp.Error.Message}
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

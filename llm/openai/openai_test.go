package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/llmgate/httpclient/sse"
	"github.com/kbukum/llmgate/llm"
)

func TestFormatMessages_LeadingSystem(t *testing.T) {
	d := New(defaultBaseURL)
	conv := llm.Conversation{
		{Role: llm.RoleUser, Content: "hi"},
		{Role: llm.RoleSystem, Content: "ignored here"},
		{Role: llm.RoleAssistant, Content: "hello"},
		{Role: llm.RoleUser, Content: "bye"},
	}

	p := d.FormatMessages(conv, "be brief")

	want := []llm.Message{
		{Role: llm.RoleSystem, Content: "be brief"},
		{Role: llm.RoleUser, Content: "hi"},
		{Role: llm.RoleAssistant, Content: "hello"},
		{Role: llm.RoleUser, Content: "bye"},
	}
	if len(p.Messages) != len(want) {
		t.Fatalf("messages = %d, want %d", len(p.Messages), len(want))
	}
	for i := range want {
		if p.Messages[i].Role != want[i].Role || p.Messages[i].Content != want[i].Content {
			t.Errorf("message %d = %+v, want %+v", i, p.Messages[i], want[i])
		}
	}
	if p.System != "" {
		t.Errorf("System = %q, want empty", p.System)
	}
}

func TestParseStreamEvent(t *testing.T) {
	d := New(defaultBaseURL)
	tests := []struct {
		name    string
		data    string
		text    string
		done    bool
		wantErr bool
	}{
		{"content", `{"choices":[{"delta":{"content":"Hi"}}]}`, "Hi", false, false},
		{"role only", `{"choices":[{"delta":{"role":"assistant"}}]}`, "", false, false},
		{"no choices", `{"choices":[]}`, "", false, false},
		{"done", "[DONE]", "", true, false},
		{"error object", `{"error":{"message":"rate limited","type":"requests"}}`, "", false, true},
		{"malformed", `{"choices":`, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, done, err := d.ParseStreamEvent(&sse.Event{Data: tt.data})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if text != tt.text || done != tt.done {
				t.Errorf("got (%q, %v), want (%q, %v)", text, done, tt.text, tt.done)
			}
		})
	}
}

func TestAdapterOverHTTP(t *testing.T) {
	var req chatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != chatPath {
			t.Errorf("path = %q, want %q", r.URL.Path, chatPath)
		}
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)

		if !req.Stream {
			fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"4"}}]}`)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	a, err := llm.NewWithDialect(New(defaultBaseURL), llm.Settings{
		Name: "gpt", APIKey: "sk-1", BaseURL: srv.URL, Temperature: llm.Float(0.3), MaxTokens: 64,
	})
	if err != nil {
		t.Fatalf("NewWithDialect: %v", err)
	}

	conv := llm.Conversation{{Role: llm.RoleUser, Content: "Say hello"}}
	it, err := a.Stream(context.Background(), a.FormatMessages(conv, "sys"), "gpt-4o", "gpt-1")
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	var text string
	for {
		c, ok, err := it.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		text += c.Content
	}
	_ = it.Close()

	if text != "Hello" {
		t.Errorf("text = %q, want %q", text, "Hello")
	}
	if auth != "Bearer sk-1" {
		t.Errorf("Authorization = %q", auth)
	}
	if req.Model != "gpt-4o" || req.Seed != nil || req.Messages[0].Role != "system" {
		t.Errorf("stream request = %+v", req)
	}

	reply, err := a.HealthCheck(context.Background(), "gpt-4o-mini", llm.Probe{System: "calc", Prompt: "2+2?", MaxTokens: 5})
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if reply != "4" {
		t.Errorf("reply = %q, want 4", reply)
	}
	if req.Seed == nil || *req.Seed != 0 || req.Temperature != 0 || req.MaxTokens != 5 {
		t.Errorf("health request = %+v", req)
	}
}

func TestRegistered(t *testing.T) {
	d, err := llm.GetDialect(DialectName)
	if err != nil {
		t.Fatalf("GetDialect: %v", err)
	}
	if d.DefaultBaseURL() != defaultBaseURL {
		t.Errorf("DefaultBaseURL() = %q", d.DefaultBaseURL())
	}
}

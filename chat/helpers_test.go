package chat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/logger"
)

// vendorReply writes one fake vendor response.
type vendorReply func(w http.ResponseWriter)

func streamChunks(chunks ...string) vendorReply {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range chunks {
			b, _ := json.Marshal(map[string]any{
				"choices": []map[string]any{{"delta": map[string]string{"content": c}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", b)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}
}

func streamThenFail(chunks ...string) vendorReply {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range chunks {
			b, _ := json.Marshal(map[string]any{
				"choices": []map[string]any{{"delta": map[string]string{"content": c}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", b)
		}
		fmt.Fprint(w, `data: {"error":{"message":"stream interrupted","type":"server_error"}}`+"\n\n")
	}
}

func statusReply(code int, body string) vendorReply {
	return func(w http.ResponseWriter) {
		w.WriteHeader(code)
		fmt.Fprint(w, body)
	}
}

func completionReply(text string) vendorReply {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": text}}},
		})
		_, _ = w.Write(b)
	}
}

// fakeVendor serves an OpenAI-compatible endpoint that answers per requested model.
type fakeVendor struct {
	*httptest.Server

	mu     sync.Mutex
	models []string
}

func newFakeVendor(t *testing.T, byModel map[string]vendorReply) *fakeVendor {
	t.Helper()
	fv := &fakeVendor{}
	fv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fv.mu.Lock()
		fv.models = append(fv.models, body.Model)
		fv.mu.Unlock()

		reply, ok := byModel[body.Model]
		if !ok {
			http.Error(w, "unknown model", http.StatusNotFound)
			return
		}
		reply(w)
	}))
	t.Cleanup(fv.Close)
	return fv
}

func (fv *fakeVendor) requested() []string {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	return append([]string(nil), fv.models...)
}

func testConfig(gptURL string) *Config {
	cfg := &Config{
		SupportedProviders: []string{ProviderGPT, ProviderClaude},
		Providers: map[string]llm.Settings{
			ProviderGPT: {APIKey: "test-key", BaseURL: gptURL, Timeout: 2 * time.Second},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func newTestOrchestrator(cfg *Config, opts ...Option) *Orchestrator {
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	return NewOrchestrator(cfg, NewRegistry(cfg), opts...)
}

func userConv(content string) llm.Conversation {
	return llm.Conversation{{Role: llm.RoleUser, Content: content}}
}

package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/logger"
)

func newTestProbe(t *testing.T, gpt vendorReply, claude http.HandlerFunc, opts ...Option) *HealthProbe {
	t.Helper()
	fv := newFakeVendor(t, map[string]vendorReply{"gpt-4o": gpt})
	providers := map[string]llm.Settings{
		ProviderGPT: {APIKey: "test-key", BaseURL: fv.URL, Timeout: 2 * time.Second},
	}
	if claude != nil {
		srv := httptest.NewServer(claude)
		t.Cleanup(srv.Close)
		providers[ProviderClaude] = llm.Settings{APIKey: "test-key", BaseURL: srv.URL, Timeout: 50 * time.Millisecond}
	}
	cfg := &Config{
		SupportedProviders: []string{ProviderGPT, ProviderClaude},
		Providers:          providers,
	}
	cfg.ApplyDefaults()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	return NewHealthProbe(NewRegistry(cfg), opts...)
}

func TestHealthProbe_Healthy(t *testing.T) {
	obs := &recordingObserver{}
	p := newTestProbe(t, completionReply(" 4\n"), nil, WithObserver(obs))

	res := p.Check(context.Background(), ProviderGPT)

	if !res.OK {
		t.Fatalf("OK = false, message %q", res.Message)
	}
	if res.Reply != "4" {
		t.Errorf("Reply = %q, want %q", res.Reply, "4")
	}
	if res.Message != "Provider is healthy" {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", res.Model)
	}
	if len(obs.health) != 1 || !obs.health[0] {
		t.Errorf("health records = %v, want [true]", obs.health)
	}
}

func TestHealthProbe_Failures(t *testing.T) {
	tests := []struct {
		name       string
		gpt        vendorReply
		wantPrefix string
	}{
		{"empty reply", completionReply("   "), "Empty response from model"},
		{"auth", statusReply(http.StatusUnauthorized, `{"error":{"message":"bad key"}}`), "AuthenticationError: "},
		{"rate limit", statusReply(http.StatusTooManyRequests, "slow down"), "RateLimitError: "},
		{"server", statusReply(http.StatusInternalServerError, "oops"), "UpstreamError: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProbe(t, tt.gpt, nil)

			res := p.Check(context.Background(), ProviderGPT)

			if res.OK {
				t.Fatalf("OK = true, want false")
			}
			if !strings.HasPrefix(res.Message, tt.wantPrefix) {
				t.Errorf("Message = %q, want prefix %q", res.Message, tt.wantPrefix)
			}
			if res.Elapsed <= 0 {
				t.Errorf("Elapsed = %v, want > 0", res.Elapsed)
			}
		})
	}
}

func TestHealthProbe_ClaudeTimeout(t *testing.T) {
	slow := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}
	p := newTestProbe(t, completionReply("4"), slow)

	res := p.Check(context.Background(), ProviderClaude)

	if res.OK {
		t.Fatal("OK = true, want false")
	}
	if !strings.HasPrefix(res.Message, "TimeoutError: ") {
		t.Errorf("Message = %q, want TimeoutError prefix", res.Message)
	}
	if res.Elapsed <= 0 {
		t.Errorf("Elapsed = %v, want > 0", res.Elapsed)
	}
}

func TestHealthProbe_InvalidProvider(t *testing.T) {
	p := newTestProbe(t, completionReply("4"), nil)

	res := p.Check(context.Background(), "mistral")

	if res.OK {
		t.Error("OK = true, want false")
	}
	if want := "Invalid provider. Supported: gpt, claude"; res.Message != want {
		t.Errorf("Message = %q, want %q", res.Message, want)
	}
	if res.Elapsed != 0 {
		t.Errorf("Elapsed = %v, want 0", res.Elapsed)
	}
}

func TestHealthProbe_Unconfigured(t *testing.T) {
	p := newTestProbe(t, completionReply("4"), nil)

	res := p.Check(context.Background(), ProviderClaude)

	if res.OK {
		t.Error("OK = true, want false")
	}
	if !strings.HasPrefix(res.Message, "ConfigurationError: ") {
		t.Errorf("Message = %q, want ConfigurationError prefix", res.Message)
	}
	if res.Elapsed != 0 {
		t.Errorf("Elapsed = %v, want 0", res.Elapsed)
	}
}

package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/llmgate/chat"
	"github.com/kbukum/llmgate/config"
	"github.com/kbukum/llmgate/conversation"
	"github.com/kbukum/llmgate/logger"
)

func loadTestConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg, err := loadConfig(
		config.WithConfigFile(filepath.Join(dir, "config.yml")),
		config.WithEnvFile(filepath.Join(dir, ".env")),
	)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadTestConfig(t)

	if cfg.Name != serviceName {
		t.Errorf("Name = %q, want %q", cfg.Name, serviceName)
	}
	if cfg.Server.Port != 3050 {
		t.Errorf("Server.Port = %d, want 3050", cfg.Server.Port)
	}
	if !cfg.Database.Enabled || !cfg.Database.AutoMigrate {
		t.Errorf("Database = %+v, want enabled with auto migrate", cfg.Database)
	}
	if !cfg.Server.RateLimit.Enabled {
		t.Error("rate limiting should be enabled by default")
	}
	if want := []string{"gpt", "claude", "gemini"}; !slices.Equal(cfg.Chat.SupportedProviders, want) {
		t.Errorf("SupportedProviders = %v, want %v", cfg.Chat.SupportedProviders, want)
	}
}

func TestLoadConfig_EnvBindings(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("SUPPORTED_PROVIDERS", "gpt,groq")
	t.Setenv("PORT", "4000")
	t.Setenv("RESPONSE_TIMEOUT", "45s")
	t.Setenv("MAX_MESSAGES_IN_CONTEXT", "20")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "10")

	cfg := loadTestConfig(t)

	if got := cfg.Chat.Providers["gpt"].APIKey; got != "sk-test" {
		t.Errorf("gpt api key = %q, want sk-test", got)
	}
	if got := cfg.Chat.Providers["groq"].APIKey; got != "gsk-test" {
		t.Errorf("groq api key = %q, want gsk-test", got)
	}
	if got := cfg.Chat.Providers["gpt"].DefaultModel; got != "gpt-4o" {
		t.Errorf("gpt default model = %q, want built-in gpt-4o", got)
	}
	if want := []string{"gpt", "groq"}; !slices.Equal(cfg.Chat.SupportedProviders, want) {
		t.Errorf("SupportedProviders = %v, want %v", cfg.Chat.SupportedProviders, want)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Chat.ResponseTimeout != 45*time.Second {
		t.Errorf("ResponseTimeout = %v, want 45s", cfg.Chat.ResponseTimeout)
	}
	if cfg.Chat.MaxMessages != 20 {
		t.Errorf("MaxMessages = %d, want 20", cfg.Chat.MaxMessages)
	}
	if cfg.Server.RateLimit.MaxRequests != 10 {
		t.Errorf("RateLimit.MaxRequests = %d, want 10", cfg.Server.RateLimit.MaxRequests)
	}
}

func TestLoadConfig_ResponseTimeoutSeconds(t *testing.T) {
	t.Setenv("RESPONSE_TIMEOUT", "30.0")

	cfg := loadTestConfig(t)
	if cfg.Chat.ResponseTimeout != 30*time.Second {
		t.Errorf("ResponseTimeout = %v, want 30s", cfg.Chat.ResponseTimeout)
	}
}

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &chat.Config{}
	cfg.ApplyDefaults()

	r := gin.New()
	registerRoutes(r, cfg, conversation.Noop{}, nil, logger.Nop())

	tests := []struct {
		method string
		target string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/health/unknown", "", http.StatusBadRequest},
		{http.MethodPost, "/chat/unknown", `{"messages":[{"role":"user","content":"hi"}]}`, http.StatusBadRequest},
		{http.MethodPost, "/chat/gpt", `{"messages":[]}`, http.StatusUnprocessableEntity},
		{http.MethodGet, "/conversations", "", http.StatusOK},
		{http.MethodGet, "/conversations/stats", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/llmgate/component"
	"github.com/kbukum/llmgate/logger"
	"github.com/kbukum/llmgate/server/middleware"
)

func testServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, logger.Nop())
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Port != 3050 {
		t.Errorf("Port = %d, want 3050", cfg.Port)
	}
	if cfg.RateLimit.MaxRequests != 500 || cfg.RateLimit.WindowSeconds != 3600 {
		t.Errorf("RateLimit = %+v, want 500 per 3600s", cfg.RateLimit)
	}
	if cfg.MaxBodySize != middleware.DefaultMaxBodySize {
		t.Errorf("MaxBodySize = %d, want %d", cfg.MaxBodySize, middleware.DefaultMaxBodySize)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", cfg.CORS.AllowedOrigins)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port too high", func(c *Config) { c.Port = 70000 }, true},
		{"negative read timeout", func(c *Config) { c.ReadTimeout = -1 }, true},
		{"negative rate limit", func(c *Config) { c.RateLimit = RateLimitConfig{Enabled: true, MaxRequests: -1} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServer_StartServeStop(t *testing.T) {
	s := testServer(t, nil)
	s.ApplyMiddleware(nil, nil)
	s.RegisterDefaultEndpoints("llmgate", func(context.Context) []component.Health {
		return []component.Health{{Name: "database", Status: component.StatusHealthy}}
	})

	comp := NewComponent(s)
	if h := comp.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %q, want unhealthy", h.Status)
	}
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })

	if h := comp.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("health after start = %q, want healthy", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/ready")
	if err != nil {
		t.Fatalf("GET /ready: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(middleware.HeaderRequestID) == "" {
		t.Error("middleware stack did not set X-Request-ID")
	}

	resp404, err := http.Get("http://" + s.Addr() + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	body, _ := io.ReadAll(resp404.Body)
	resp404.Body.Close()
	var errBody map[string]any
	if resp404.StatusCode != http.StatusNotFound || json.Unmarshal(body, &errBody) != nil || errBody["status"] != "error" {
		t.Errorf("GET /nope = %d %s, want 404 error response", resp404.StatusCode, body)
	}

	if err := comp.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := comp.Stop(context.Background()); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestServer_RateLimitEnabled(t *testing.T) {
	s := testServer(t, func(c *Config) {
		c.RateLimit = RateLimitConfig{Enabled: true, MaxRequests: 1, WindowSeconds: 60}
	})
	s.ApplyMiddleware(nil, middleware.NewMemoryCounter())
	s.GinEngine().GET("/conversations", func(c *gin.Context) { c.Status(http.StatusOK) })

	h := s.Handler()
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/conversations", http.NoBody))
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429]", codes)
	}
}

func TestServer_RoutesOrder(t *testing.T) {
	s := testServer(t, nil)
	s.RegisterDefaultEndpoints("llmgate", nil)
	s.GinEngine().POST("/chat/:provider", func(*gin.Context) {})
	s.GinEngine().GET("/conversations", func(*gin.Context) {})

	routes := s.Routes()
	if len(routes) != 5 {
		t.Fatalf("routes = %d, want 5", len(routes))
	}
	if routes[0].Path != "/chat/:provider" || routes[1].Path != "/conversations" {
		t.Errorf("API routes not first: %s, %s", routes[0].Path, routes[1].Path)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"github.com/kbukum/llmgate/server/endpoint.Chat.func1", "chat"},
		{"github.com/kbukum/llmgate/server.(*Server).Routes-fm", "Server.Routes"},
		{"github.com/kbukum/llmgate/server/endpoint.Health", "Health"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := formatHandlerName(tt.in); got != tt.want {
				t.Errorf("formatHandlerName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

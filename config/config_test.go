package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	Server        struct {
		Port        int           `mapstructure:"port"`
		ReadTimeout time.Duration `mapstructure:"read_timeout"`
	} `mapstructure:"server"`
	Chat struct {
		SupportedProviders []string `mapstructure:"supported_providers"`
		Providers          map[string]struct {
			APIKey       string `mapstructure:"api_key"`
			DefaultModel string `mapstructure:"default_model"`
		} `mapstructure:"providers"`
	} `mapstructure:"chat"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestServiceConfig_Defaults(t *testing.T) {
	cfg := ServiceConfig{Name: "svc"}
	cfg.ApplyDefaults()
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "development")
	}
	if !cfg.Debug {
		t.Error("expected debug=true for development")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestServiceConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "production"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"bad env", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Logging.ApplyDefaults()
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yml", `
name: llmgate
server:
  port: 8080
  read_timeout: 5s
chat:
  supported_providers: [gpt, claude]
  providers:
    gpt:
      default_model: gpt-4o
`)

	t.Setenv("SERVER_PORT", "3050")
	t.Setenv("TEST_OPENAI_KEY", "sk-test")

	var cfg testConfig
	err := LoadConfig("llmgate", &cfg,
		WithConfigFile(cfgPath),
		WithEnvFile(filepath.Join(dir, "missing.env")),
		WithEnvBindings(map[string]string{"chat.providers.gpt.api_key": "TEST_OPENAI_KEY"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Name != "llmgate" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Server.Port != 3050 {
		t.Errorf("Server.Port = %d, want 3050 from env", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if !reflect.DeepEqual(cfg.Chat.SupportedProviders, []string{"gpt", "claude"}) {
		t.Errorf("SupportedProviders = %v", cfg.Chat.SupportedProviders)
	}
	gpt := cfg.Chat.Providers["gpt"]
	if gpt.APIKey != "sk-test" || gpt.DefaultModel != "gpt-4o" {
		t.Errorf("gpt provider = %+v", gpt)
	}
}

func TestLoadConfig_CommaSeparatedSlice(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEST_SUPPORTED", "gpt,gemini")

	var cfg testConfig
	err := LoadConfig("llmgate", &cfg,
		WithConfigFile(filepath.Join(dir, "none.yml")),
		WithEnvFile(filepath.Join(dir, "none.env")),
		WithEnvBindings(map[string]string{"chat.supported_providers": "TEST_SUPPORTED"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg.Chat.SupportedProviders, []string{"gpt", "gemini"}) {
		t.Errorf("SupportedProviders = %v", cfg.Chat.SupportedProviders)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "TEST_ENVFILE_KEY=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("TEST_ENVFILE_KEY") })

	var cfg testConfig
	err := LoadConfig("llmgate", &cfg,
		WithConfigFile(filepath.Join(dir, "none.yml")),
		WithEnvFile(envPath),
		WithEnvBindings(map[string]string{"chat.providers.claude.api_key": "TEST_ENVFILE_KEY"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.Chat.Providers["claude"].APIKey; got != "from-dotenv" {
		t.Errorf("claude api key = %q, want %q", got, "from-dotenv")
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f fakeFS) Exists(path string) bool { return f.files[path] }
func (f fakeFS) LoadEnv(string) error    { return nil }

func TestFindFirst_SearchOrder(t *testing.T) {
	fs := fakeFS{files: map[string]bool{
		"./config.yml":              true,
		"./cmd/llmgate/config.yml": true,
	}}
	if got := findFirst(fs, configSearchPaths("llmgate")); got != "./cmd/llmgate/config.yml" {
		t.Errorf("findFirst = %q, want cmd path first", got)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("SERVER_READ_TIMEOUT")
	for _, want := range []string{"server_read_timeout", "server.read.timeout", "server.read_timeout", "server_read.timeout"} {
		found := false
		for _, v := range got {
			if v == want {
				found = true
			}
		}
		if !found {
			t.Errorf("variants %v missing %q", got, want)
		}
	}
	if got := envKeyVariants("PORT"); !reflect.DeepEqual(got, []string{"port"}) {
		t.Errorf("variants(PORT) = %v", got)
	}
}

func TestLoadConfig_DurationFormats(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want time.Duration
	}{
		{"duration string", "45s", 45 * time.Second},
		{"float seconds", "30.0", 30 * time.Second},
		{"integer seconds", "12", 12 * time.Second},
		{"fractional seconds", "1.5", 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("TEST_READ_TIMEOUT", tt.env)

			var cfg testConfig
			err := LoadConfig("llmgate", &cfg,
				WithConfigFile(filepath.Join(dir, "none.yml")),
				WithEnvFile(filepath.Join(dir, "none.env")),
				WithEnvBindings(map[string]string{"server.read_timeout": "TEST_READ_TIMEOUT"}),
			)
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.Server.ReadTimeout != tt.want {
				t.Errorf("ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, tt.want)
			}
		})
	}
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEST_READ_TIMEOUT", "soon")

	var cfg testConfig
	err := LoadConfig("llmgate", &cfg,
		WithConfigFile(filepath.Join(dir, "none.yml")),
		WithEnvFile(filepath.Join(dir, "none.env")),
		WithEnvBindings(map[string]string{"server.read_timeout": "TEST_READ_TIMEOUT"}),
	)
	if err == nil {
		t.Errorf("LoadConfig = nil, want error for %q", "soon")
	}
}

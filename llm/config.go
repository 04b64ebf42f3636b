package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/llmgate/resilience"
	"github.com/kbukum/llmgate/security"
)

const defaultTimeout = 30 * time.Second

// Settings configures one provider. An empty APIKey marks the provider unavailable.
type Settings struct {
	// Name is the public provider name (e.g., "gpt", "claude").
	Name string `yaml:"name" mapstructure:"name"`

	// Dialect selects the wire format (e.g., "openai", "anthropic").
	Dialect string `yaml:"dialect" mapstructure:"dialect"`

	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// BaseURL overrides the dialect default.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	DefaultModel  string `yaml:"default_model" mapstructure:"default_model"`
	FallbackModel string `yaml:"fallback_model" mapstructure:"fallback_model"`

	// Temperature is nil when unset; an explicit 0 is kept.
	Temperature *float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int      `yaml:"max_tokens" mapstructure:"max_tokens"`

	// SystemPrompt is used when a conversation carries no usable system message.
	SystemPrompt string `yaml:"system_prompt" mapstructure:"system_prompt"`

	// Timeout bounds non-streaming calls (health checks). Streams are bounded
	// by the caller's context.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	Retry          *resilience.RetryConfig          `yaml:"retry" mapstructure:"retry"`
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	// TLS customizes the vendor connection, e.g. a private CA for a proxy.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults sets default values for unset fields.
func (s *Settings) ApplyDefaults() {
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	if s.Dialect == "" {
		s.Dialect = s.Name
	}
}

// Validate checks the settings of a configured provider.
func (s *Settings) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("llm: provider name is required")
	}
	if s.DefaultModel == "" {
		return fmt.Errorf("llm: %s: default_model is required", s.Name)
	}
	if s.FallbackModel == "" {
		return fmt.Errorf("llm: %s: fallback_model is required", s.Name)
	}
	if t := s.temperature(); t < 0 || t > 2 {
		return fmt.Errorf("llm: %s: temperature must be in [0, 2], got %g", s.Name, t)
	}
	if s.MaxTokens <= 0 {
		return fmt.Errorf("llm: %s: max_tokens must be positive", s.Name)
	}
	if err := s.TLS.Validate(); err != nil {
		return fmt.Errorf("llm: %s: %w", s.Name, err)
	}
	return nil
}

func (s *Settings) temperature() float64 {
	if s.Temperature == nil {
		return 0
	}
	return *s.Temperature
}

// Float returns a pointer to v, for optional settings such as Temperature.
func Float(v float64) *float64 { return &v }

// Configured reports whether an API key is present.
func (s *Settings) Configured() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

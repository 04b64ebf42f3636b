package chat

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/resilience"
)

// Provider names.
const (
	ProviderGPT    = "gpt"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Default system prompts.
const (
	GenericSystemPrompt = "You are a helpful AI assistant that provides accurate and informative responses."
	GPTSystemPrompt     = "You are ChatGPT, a helpful AI assistant that provides accurate and informative responses."
	ClaudeSystemPrompt  = "You are Claude, a highly capable AI assistant created by Anthropic, focused on providing accurate, nuanced, and helpful responses."
	GeminiSystemPrompt  = "You are Gemini, a helpful and capable AI assistant created by Google, focused on providing clear and accurate responses."
	GroqSystemPrompt    = "You are a helpful AI assistant powered by Groq, focused on providing fast and accurate responses."
)

const (
	defaultTemperature     = 0.3
	defaultMaxTokens       = 8192
	defaultMaxMessageLen   = 24000
	defaultMaxMessages     = 50
	defaultMinMessageLen   = 1
	defaultResponseTimeout = 30 * time.Second
)

// Config configures the chat core: which providers are served, their
// settings, and the conversation limits.
type Config struct {
	// SupportedProviders is the set of provider names served by this deployment.
	SupportedProviders []string `yaml:"supported_providers" mapstructure:"supported_providers"`

	// Providers holds per-provider settings keyed by provider name.
	Providers map[string]llm.Settings `yaml:"providers" mapstructure:"providers"`

	MaxMessageLength int `yaml:"max_message_length" mapstructure:"max_message_length"`
	MaxMessages      int `yaml:"max_messages" mapstructure:"max_messages"`
	MinMessageLength int `yaml:"min_message_length" mapstructure:"min_message_length"`

	// GenericSystemPrompt is the last-resort system prompt.
	GenericSystemPrompt string `yaml:"generic_system_prompt" mapstructure:"generic_system_prompt"`

	// ResponseTimeout bounds one chat request. Consumed by the HTTP layer.
	ResponseTimeout time.Duration `yaml:"response_timeout" mapstructure:"response_timeout"`

	// FallbackAfterPartial switches to the fallback model even after the
	// default model streamed content; the client then sees both outputs.
	FallbackAfterPartial bool `yaml:"fallback_after_partial" mapstructure:"fallback_after_partial"`

	// CircuitBreaker guards each provider's vendor endpoint. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
}

// DefaultProviders returns the built-in settings of every known provider,
// without API keys.
func DefaultProviders() map[string]llm.Settings {
	return map[string]llm.Settings{
		ProviderGPT: {
			Name: ProviderGPT, Dialect: "openai",
			DefaultModel: "gpt-4o", FallbackModel: "gpt-4o-mini",
			Temperature: llm.Float(defaultTemperature), MaxTokens: defaultMaxTokens,
			SystemPrompt: GPTSystemPrompt,
		},
		ProviderClaude: {
			Name: ProviderClaude, Dialect: "anthropic",
			DefaultModel: "claude-3-5-sonnet-latest", FallbackModel: "claude-3-5-haiku-latest",
			Temperature: llm.Float(defaultTemperature), MaxTokens: defaultMaxTokens,
			SystemPrompt: ClaudeSystemPrompt,
		},
		ProviderGemini: {
			Name: ProviderGemini, Dialect: "gemini",
			DefaultModel: "gemini-2.0-flash", FallbackModel: "gemini-1.5-pro",
			Temperature: llm.Float(defaultTemperature), MaxTokens: defaultMaxTokens,
			SystemPrompt: GeminiSystemPrompt,
		},
		ProviderGroq: {
			Name: ProviderGroq, Dialect: "groq",
			DefaultModel: "llama-3.3-70b-versatile", FallbackModel: "mixtral-8x7b-32768",
			Temperature: llm.Float(defaultTemperature), MaxTokens: defaultMaxTokens,
			SystemPrompt: GroqSystemPrompt,
		},
	}
}

// ApplyDefaults fills unset fields. Configured provider settings are merged
// over the built-in ones field by field.
func (c *Config) ApplyDefaults() {
	if len(c.SupportedProviders) == 0 {
		c.SupportedProviders = []string{ProviderGPT, ProviderClaude, ProviderGemini}
	}
	for i, name := range c.SupportedProviders {
		c.SupportedProviders[i] = strings.ToLower(strings.TrimSpace(name))
	}

	merged := DefaultProviders()
	for name, s := range c.Providers {
		merged[name] = mergeSettings(merged[name], s)
	}
	for name, s := range merged {
		s.Name = name
		s.ApplyDefaults()
		if s.CircuitBreaker == nil && c.CircuitBreaker != nil {
			cb := *c.CircuitBreaker
			s.CircuitBreaker = &cb
		}
		merged[name] = s
	}
	c.Providers = merged

	if c.MaxMessageLength <= 0 {
		c.MaxMessageLength = defaultMaxMessageLen
	}
	if c.MaxMessages <= 0 {
		c.MaxMessages = defaultMaxMessages
	}
	if c.MinMessageLength <= 0 {
		c.MinMessageLength = defaultMinMessageLen
	}
	if c.GenericSystemPrompt == "" {
		c.GenericSystemPrompt = GenericSystemPrompt
	}
	if c.ResponseTimeout <= 0 {
		c.ResponseTimeout = defaultResponseTimeout
	}
}

// Validate checks the configuration. Providers without an API key are not an
// error; they are reported unavailable at first use.
func (c *Config) Validate() error {
	if c.MinMessageLength > c.MaxMessageLength {
		return fmt.Errorf("chat: min_message_length %d exceeds max_message_length %d", c.MinMessageLength, c.MaxMessageLength)
	}
	for _, name := range c.SupportedProviders {
		s, ok := c.Providers[name]
		if !ok {
			return fmt.Errorf("chat: supported provider %q has no settings", name)
		}
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsSupported reports whether name is served by this deployment.
func (c *Config) IsSupported(name string) bool {
	return slices.Contains(c.SupportedProviders, name)
}

// PromptDefaults returns the default system prompts for ResolveSystemPrompt.
func (c *Config) PromptDefaults() PromptDefaults {
	byProvider := make(map[string]string, len(c.Providers))
	for name, s := range c.Providers {
		if s.SystemPrompt != "" {
			byProvider[name] = s.SystemPrompt
		}
	}
	return PromptDefaults{ByProvider: byProvider, Generic: c.GenericSystemPrompt}
}

func mergeSettings(base, over llm.Settings) llm.Settings {
	if over.Dialect != "" {
		base.Dialect = over.Dialect
	}
	if over.APIKey != "" {
		base.APIKey = over.APIKey
	}
	if over.BaseURL != "" {
		base.BaseURL = over.BaseURL
	}
	if over.DefaultModel != "" {
		base.DefaultModel = over.DefaultModel
	}
	if over.FallbackModel != "" {
		base.FallbackModel = over.FallbackModel
	}
	if over.Temperature != nil {
		base.Temperature = over.Temperature
	}
	if over.MaxTokens != 0 {
		base.MaxTokens = over.MaxTokens
	}
	if over.SystemPrompt != "" {
		base.SystemPrompt = over.SystemPrompt
	}
	if over.Timeout != 0 {
		base.Timeout = over.Timeout
	}
	if over.Retry != nil {
		base.Retry = over.Retry
	}
	if over.CircuitBreaker != nil {
		base.CircuitBreaker = over.CircuitBreaker
	}
	if over.TLS != nil {
		base.TLS = over.TLS
	}
	return base
}

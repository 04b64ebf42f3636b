package main

import (
	"fmt"

	"github.com/kbukum/llmgate/chat"
	"github.com/kbukum/llmgate/config"
	"github.com/kbukum/llmgate/database"
	"github.com/kbukum/llmgate/observability"
	"github.com/kbukum/llmgate/redis"
	"github.com/kbukum/llmgate/server"
	"github.com/kbukum/llmgate/version"
)

const serviceName = "llmgate"

// Config is the llmgate service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Chat          chat.Config          `yaml:"chat" mapstructure:"chat"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// envBindings keeps the deployment's historical variable names working.
var envBindings = map[string]string{
	"chat.providers.gpt.api_key":       "OPENAI_API_KEY",
	"chat.providers.claude.api_key":    "ANTHROPIC_API_KEY",
	"chat.providers.gemini.api_key":    "GEMINI_API_KEY",
	"chat.providers.groq.api_key":      "GROQ_API_KEY",
	"chat.supported_providers":         "SUPPORTED_PROVIDERS",
	"chat.response_timeout":            "RESPONSE_TIMEOUT",
	"chat.max_message_length":          "MAX_MESSAGE_LENGTH",
	"chat.max_messages":                "MAX_MESSAGES_IN_CONTEXT",
	"chat.min_message_length":          "MIN_MESSAGE_LENGTH",
	"server.port":                      "PORT",
	"server.rate_limit.max_requests":   "RATE_LIMIT_MAX_REQUESTS",
	"server.rate_limit.window_seconds": "RATE_LIMIT_WINDOW_SECONDS",
	"logging.level":                    "LOG_LEVEL",
	"database.dsn":                     "DATABASE_DSN",
	"redis.addr":                       "REDIS_ADDR",
	"observability.endpoint":           "OTEL_EXPORTER_OTLP_ENDPOINT",
}

var loaderDefaults = map[string]any{
	"name":                      serviceName,
	"database.enabled":          true,
	"database.auto_migrate":     true,
	"server.rate_limit.enabled": true,
}

func loadConfig(opts ...config.LoaderOption) (*Config, error) {
	var cfg Config
	opts = append([]config.LoaderOption{
		config.WithEnvBindings(envBindings),
		config.WithDefaults(loaderDefaults),
	}, opts...)
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Version == "" {
		cfg.Version = version.Version
	}
	return &cfg, nil
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Chat.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Chat.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return c.Observability.Validate()
}

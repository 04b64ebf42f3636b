package server

import (
	"fmt"
	"time"

	"github.com/kbukum/llmgate/server/endpoint"
	"github.com/kbukum/llmgate/server/middleware"
)

// Config holds HTTP server configuration.
type Config struct {
	Host            string                `yaml:"host" mapstructure:"host"`
	Port            int                   `yaml:"port" mapstructure:"port"`
	ReadTimeout     int                   `yaml:"read_timeout" mapstructure:"read_timeout"`         // seconds
	WriteTimeout    int                   `yaml:"write_timeout" mapstructure:"write_timeout"`       // seconds, SSE streams are exempt
	IdleTimeout     int                   `yaml:"idle_timeout" mapstructure:"idle_timeout"`         // seconds
	ShutdownTimeout int                   `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"` // seconds
	MaxBodySize     int64                 `yaml:"max_body_size" mapstructure:"max_body_size"`       // bytes
	CORS            middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
	RateLimit       RateLimitConfig       `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig sets the per-client request budget.
type RateLimitConfig struct {
	Enabled       bool `yaml:"enabled" mapstructure:"enabled"`
	MaxRequests   int  `yaml:"max_requests" mapstructure:"max_requests"`
	WindowSeconds int  `yaml:"window_seconds" mapstructure:"window_seconds"`
}

// Window returns the rate limit window as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 3050
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5
	}
	if c.MaxBodySize == 0 {
		c.MaxBodySize = middleware.DefaultMaxBodySize
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID}
	}
	if len(c.CORS.ExposedHeaders) == 0 {
		c.CORS.ExposedHeaders = []string{middleware.HeaderRequestID, endpoint.HeaderConversationID}
	}
	if c.RateLimit.MaxRequests == 0 {
		c.RateLimit.MaxRequests = 500
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 3600
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be non-negative (got: %d)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must be non-negative (got: %d)", c.WriteTimeout)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("server.idle_timeout must be non-negative (got: %d)", c.IdleTimeout)
	}
	if c.MaxBodySize < 0 {
		return fmt.Errorf("server.max_body_size must be non-negative (got: %d)", c.MaxBodySize)
	}
	if c.RateLimit.Enabled && (c.RateLimit.MaxRequests < 0 || c.RateLimit.WindowSeconds < 0) {
		return fmt.Errorf("server.rate_limit values must be non-negative (got: %d per %ds)",
			c.RateLimit.MaxRequests, c.RateLimit.WindowSeconds)
	}
	return nil
}

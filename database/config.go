package database

import (
	"fmt"
	"strings"
	"time"
)

const defaultDSN = "llmgate.db"

// Config holds conversation database configuration.
type Config struct {
	// Enabled controls whether the database component is active. When false
	// conversations are not persisted.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// DSN is the SQLite connection string, e.g. "llmgate.db" or ":memory:".
	DSN string `yaml:"dsn" mapstructure:"dsn"`

	MaxOpenConns int `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`

	// ConnMaxLifetime is the maximum time a connection may be reused (e.g. "1h").
	ConnMaxLifetime string `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`

	// MaxRetries is the number of connection attempts before giving up.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	// AutoMigrate controls whether registered migrations run on Start.
	AutoMigrate bool `yaml:"auto_migrate" mapstructure:"auto_migrate"`

	// SlowQueryThreshold is the duration above which queries are logged as slow.
	SlowQueryThreshold string `yaml:"slow_query_threshold" mapstructure:"slow_query_threshold"`

	// LogLevel is the GORM log level: silent, error, warn or info.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`

	// RetentionDays is how long conversations are kept by Cleanup.
	RetentionDays int `yaml:"retention_days" mapstructure:"retention_days"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.DSN == "" {
		c.DSN = defaultDSN
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 10
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 2
	}
	if c.IsMemory() {
		// Every connection to an in-memory database is a separate database.
		c.MaxOpenConns, c.MaxIdleConns = 1, 1
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "1h"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.SlowQueryThreshold == "" {
		c.SlowQueryThreshold = "200ms"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = 30
	}
}

// IsMemory reports whether the DSN names an in-memory database.
func (c *Config) IsMemory() bool {
	return c.DSN == ":memory:" || strings.Contains(c.DSN, "mode=memory")
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns (%d) must be <= max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid conn_max_lifetime %q: %w", c.ConnMaxLifetime, err)
	}
	if _, err := time.ParseDuration(c.SlowQueryThreshold); err != nil {
		return fmt.Errorf("invalid slow_query_threshold %q: %w", c.SlowQueryThreshold, err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

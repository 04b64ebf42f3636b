// Package config loads service configuration from config.yml, .env files and
// environment variables into typed structs using Viper.
//
// Every config section in llmgate follows the same convention: a struct with
// mapstructure tags plus ApplyDefaults and Validate methods. The root config
// embeds ServiceConfig:
//
//	type Config struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Server server.Config `mapstructure:"server"`
//	}
//
// Environment variables override file values. UPPER_SNAKE names are matched
// against nested keys automatically (SERVER_PORT sets server.port), and
// WithEnvBindings maps legacy names such as OPENAI_API_KEY onto explicit keys.
package config

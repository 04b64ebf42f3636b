package bootstrap

import (
	"github.com/kbukum/llmgate/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig gets GetServiceConfig through promotion:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

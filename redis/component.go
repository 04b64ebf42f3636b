package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/llmgate/component"
	"github.com/kbukum/llmgate/logger"
)

// Component owns the Client lifecycle. When disabled it starts without a
// client and the rate limiter falls back to in-process counting.
type Component struct {
	cfg    Config
	client *Client
	log    *logger.Logger
}

var _ component.Component = (*Component)(nil)

// NewComponent creates the redis component.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("redis")}
}

// Client returns the started client, or nil.
func (c *Component) Client() *Client { return c.client }

func (c *Component) Name() string { return "redis" }

// Start dials and pings the server.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	client, err := New(c.cfg, c.log)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return err
	}
	c.client = client
	return nil
}

func (c *Component) Stop(context.Context) error {
	return c.client.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case !c.cfg.Enabled:
		h.Status = component.StatusDisabled
	case c.client == nil:
		h.Status, h.Message = component.StatusUnhealthy, "not started"
	default:
		if err := c.client.Ping(ctx); err != nil {
			h.Status, h.Message = component.StatusUnhealthy, err.Error()
		}
	}
	return h
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d prefix=%s", c.cfg.Addr, c.cfg.DB, c.cfg.KeyPrefix),
	}
}

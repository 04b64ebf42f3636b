package server

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/kbukum/llmgate/component"
)

const componentName = "http-server"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component wraps Server for the component registry.
type Component struct {
	server  *Server
	started atomic.Bool
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the component name used for registration.
func (sc *Component) Name() string { return componentName }

// Start starts the underlying HTTP server and logs its routes.
func (sc *Component) Start(ctx context.Context) error {
	if err := sc.server.Start(ctx); err != nil {
		return err
	}
	sc.started.Store(true)
	sc.server.LogRoutes()
	return nil
}

// Stop gracefully shuts down the underlying HTTP server.
func (sc *Component) Stop(ctx context.Context) error {
	if !sc.started.Swap(false) {
		return nil
	}
	return sc.server.Stop(ctx)
}

// Health reports the server healthy once it is listening.
func (sc *Component) Health(context.Context) component.Health {
	if sc.started.Load() {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "HTTP server not started",
	}
}

// Describe returns the summary line shown at startup.
func (sc *Component) Describe() component.Description {
	cfg := sc.server.config
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Port:    cfg.Port,
	}
}

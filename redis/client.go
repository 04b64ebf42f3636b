package redis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/llmgate/logger"
)

// Client is a go-redis client bound to llmgate's key namespace.
type Client struct {
	rdb       *goredis.Client
	prefix    string
	log       *logger.Logger
	closeOnce sync.Once
	closeErr  error
}

// New builds a client for an enabled config. It does not dial; call Ping.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled {
		return nil, fmt.Errorf("redis: disabled")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug("Redis client created", logger.Fields("addr", cfg.Addr, "db", cfg.DB))
	return &Client{
		rdb:    goredis.NewClient(cfg.options()),
		prefix: cfg.KeyPrefix,
		log:    log,
	}, nil
}

// Ping round-trips a PING.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Key joins parts with ":" under the configured prefix.
func (c *Client) Key(parts ...string) string {
	return c.prefix + strings.Join(parts, ":")
}

// Close releases the connection pool. Later calls return the first result.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.log.Debug("Closing Redis connection")
		c.closeErr = c.rdb.Close()
	})
	return c.closeErr
}

// Unwrap returns the underlying go-redis client.
func (c *Client) Unwrap() *goredis.Client {
	return c.rdb
}

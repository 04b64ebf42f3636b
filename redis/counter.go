package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Counter counts events per key in fixed windows. A window opens on the
// first Incr of a key and closes when the key expires.
type Counter struct {
	client *Client
	prefix string
}

// NewCounter creates a counter whose keys live under prefix.
func NewCounter(client *Client, prefix string) *Counter {
	return &Counter{client: client, prefix: prefix}
}

// Incr adds one to key's count in the current window and returns the new
// count and the time left until the window resets.
func (c *Counter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	k := c.client.Key(c.prefix, key)
	rdb := c.client.Unwrap()

	var incr *goredis.IntCmd
	var pttl *goredis.DurationCmd
	if _, err := rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		pttl = p.PTTL(ctx, k)
		return nil
	}); err != nil {
		return 0, 0, fmt.Errorf("redis incr %s: %w", k, err)
	}

	n, ttl := incr.Val(), pttl.Val()
	// A fresh key, or one left behind without expiry, starts the window now.
	if ttl < 0 {
		if err := rdb.PExpire(ctx, k, window).Err(); err != nil {
			return n, 0, fmt.Errorf("redis expire %s: %w", k, err)
		}
		ttl = window
	}
	return n, ttl, nil
}

// Package redis wraps go-redis for the shared request counters behind the
// rate limiter.
//
//	comp := redis.NewComponent(cfg, log)
//	// after Start:
//	counter := redis.NewCounter(comp.Client(), "ratelimit")
//	n, resetIn, err := counter.Incr(ctx, clientIP, time.Hour)
package redis

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/llmgate/component"
	"github.com/kbukum/llmgate/logger"
)

func startComponent(t *testing.T) (*Component, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	comp := NewComponent(Config{Enabled: true, Addr: mr.Addr()}, logger.Nop())
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })
	return comp, mr
}

func TestCounter_FixedWindow(t *testing.T) {
	comp, mr := startComponent(t)
	counter := NewCounter(comp.Client(), "ratelimit")
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, ttl, err := counter.Incr(ctx, "10.0.0.1", time.Minute)
		if err != nil {
			t.Fatalf("Incr: %v", err)
		}
		if n != want {
			t.Errorf("count = %d, want %d", n, want)
		}
		if ttl <= 0 || ttl > time.Minute {
			t.Errorf("ttl = %v, want within (0, 1m]", ttl)
		}
	}

	if !mr.Exists("llmgate:ratelimit:10.0.0.1") {
		t.Errorf("keys = %v, want llmgate:ratelimit:10.0.0.1", mr.Keys())
	}

	// Another client has its own window.
	if n, _, _ := counter.Incr(ctx, "10.0.0.2", time.Minute); n != 1 {
		t.Errorf("other key count = %d, want 1", n)
	}

	mr.FastForward(time.Minute + time.Second)
	n, _, err := counter.Incr(ctx, "10.0.0.1", time.Minute)
	if err != nil {
		t.Fatalf("Incr after window: %v", err)
	}
	if n != 1 {
		t.Errorf("count after window = %d, want 1", n)
	}
}

func TestCounter_RepairsMissingExpiry(t *testing.T) {
	comp, mr := startComponent(t)
	counter := NewCounter(comp.Client(), "ratelimit")

	if err := mr.Set("llmgate:ratelimit:stuck", "5"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	n, ttl, err := counter.Incr(context.Background(), "stuck", time.Minute)
	if err != nil {
		t.Fatalf("Incr: %v", err)
	}
	if n != 6 || ttl != time.Minute {
		t.Errorf("Incr = (%d, %v), want (6, 1m)", n, ttl)
	}
	if mr.TTL("llmgate:ratelimit:stuck") <= 0 {
		t.Error("expiry not set on stuck key")
	}
}

func TestComponent_Health(t *testing.T) {
	comp, mr := startComponent(t)
	ctx := context.Background()

	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("Health = %s (%s), want healthy", h.Status, h.Message)
	}
	mr.Close()
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health after server stop = %s, want unhealthy", h.Status)
	}
}

func TestComponent_Disabled(t *testing.T) {
	comp := NewComponent(Config{}, logger.Nop())
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if comp.Client() != nil {
		t.Error("Client() should be nil when disabled")
	}
	if h := comp.Health(context.Background()); h.Status != component.StatusDisabled {
		t.Errorf("Health = %s, want disabled", h.Status)
	}
}

func TestComponent_StartFailsWithoutServer(t *testing.T) {
	comp := NewComponent(Config{Enabled: true, Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: 1}, logger.Nop())
	if err := comp.Start(context.Background()); err == nil {
		t.Fatal("Start = nil, want connection error")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Enabled: true}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate = nil, want error for missing addr")
	}
	cfg.Addr = "localhost:6379"
	cfg.MinIdleConns = cfg.PoolSize + 1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate = nil, want error for min_idle_conns above pool_size")
	}
	if cfg.KeyPrefix != "llmgate:" {
		t.Errorf("KeyPrefix = %q, want llmgate:", cfg.KeyPrefix)
	}
}

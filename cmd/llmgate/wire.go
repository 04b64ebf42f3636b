package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/llmgate/bootstrap"
	"github.com/kbukum/llmgate/conversation"
	"github.com/kbukum/llmgate/database"
	"github.com/kbukum/llmgate/observability"
	"github.com/kbukum/llmgate/redis"
	"github.com/kbukum/llmgate/server"
	"github.com/kbukum/llmgate/server/middleware"
)

const retentionInterval = 24 * time.Hour

// wire registers the infrastructure components and the hooks that assemble
// the chat service once they are up. The HTTP server starts last, after
// every route is registered.
func wire(app *bootstrap.App[*Config]) error {
	cfg := app.Cfg
	log := app.Logger

	dbComp := database.NewComponent(cfg.Database, log).WithMigrations(conversation.Migrations()...)
	if err := app.RegisterComponent(dbComp); err != nil {
		return err
	}
	redisComp := redis.NewComponent(cfg.Redis, log)
	if err := app.RegisterComponent(redisComp); err != nil {
		return err
	}

	srv := server.New(cfg.Server, log)
	httpComp := server.NewComponent(srv)

	var shutdowns []func(context.Context) error
	app.OnStart(func(ctx context.Context) error {
		if !cfg.Observability.Enabled {
			return nil
		}
		tp, err := observability.InitTracer(ctx, cfg.Observability.TracerConfig(app.Name, app.Version, cfg.Environment))
		if err != nil {
			return fmt.Errorf("tracer: %w", err)
		}
		shutdowns = append(shutdowns, tp.Shutdown)
		mp, err := observability.InitMeter(ctx, cfg.Observability.MeterConfig(app.Name, app.Version, cfg.Environment))
		if err != nil {
			return fmt.Errorf("meter: %w", err)
		}
		shutdowns = append(shutdowns, mp.Shutdown)
		return nil
	})

	stopRetention := func() {}
	app.OnConfigure(func(ctx context.Context, app *bootstrap.App[*Config]) error {
		var store conversation.Store = conversation.Noop{}
		if db := dbComp.DB(); db != nil {
			store = conversation.NewGormStore(db, log)
		}

		meter := observability.Meter(serviceName)
		httpMetrics, err := observability.NewMetrics(meter)
		if err != nil {
			return fmt.Errorf("http metrics: %w", err)
		}
		streamMetrics, err := observability.NewStreamMetrics(meter)
		if err != nil {
			return fmt.Errorf("stream metrics: %w", err)
		}

		var counter middleware.Counter
		if client := redisComp.Client(); client != nil {
			counter = redis.NewCounter(client, "ratelimit")
		}
		srv.ApplyMiddleware(httpMetrics, counter)
		srv.RegisterDefaultEndpoints(app.Name, app.Components.HealthAll)
		registerRoutes(srv.GinEngine(), &cfg.Chat, store, streamMetrics, log)

		if dbComp.DB() != nil {
			sweepCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
			stopRetention = cancel
			retention := time.Duration(cfg.Database.RetentionDays) * 24 * time.Hour
			go conversation.Sweep(sweepCtx, store, retention, retentionInterval, log)
		}
		return nil
	})

	app.OnReady(httpComp.Start)
	app.OnStop(httpComp.Stop, func(ctx context.Context) error {
		stopRetention()
		var firstErr error
		for _, shutdown := range shutdowns {
			if err := shutdown(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})
	return nil
}

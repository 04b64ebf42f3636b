// Package bootstrap runs a service's lifecycle: config defaults and
// validation, logger setup, component start in registration order, startup
// hooks, a startup summary, the wait for SIGINT/SIGTERM and graceful
// shutdown in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(db)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    // wire handlers against started components
//	    return nil
//	})
//	err = app.Run(ctx)
package bootstrap

// Command llmgate serves a single chat API in front of several LLM vendors.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/llmgate/bootstrap"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	if err := wire(app); err != nil {
		app.Logger.WithError(err).Fatal("Failed to wire application")
	}
	if err := app.Run(context.Background()); err != nil {
		app.Logger.WithError(err).Fatal("Application exited with error")
	}
}

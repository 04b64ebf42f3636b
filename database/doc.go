// Package database opens the conversation database with GORM.
//
// SQLite is the default driver; WithDriver swaps in another dialector.
// Connections are retried with backoff, GORM queries are logged through
// the llmgate logger, and migrations registered with WithMigrations run
// on Start.
//
//	comp := database.NewComponent(cfg, log).
//		WithMigrations(conversation.Migrations()...)
//	registry.Register(comp)
package database

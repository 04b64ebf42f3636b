package database

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/llmgate/component"
	"github.com/kbukum/llmgate/database/migration"
	"github.com/kbukum/llmgate/logger"
)

// Component wraps DB and implements component.Component.
type Component struct {
	db         *DB
	cfg        Config
	log        *logger.Logger
	driver     func(dsn string) gorm.Dialector
	migrations []migration.Migration
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a database component. SQLite is the default driver.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg:    cfg,
		log:    log,
		driver: sqlite.Open,
	}
}

// WithDriver replaces the dialector constructor.
func (c *Component) WithDriver(driver func(dsn string) gorm.Dialector) *Component {
	c.driver = driver
	return c
}

// WithMigrations registers migrations to run on Start when AutoMigrate is set.
func (c *Component) WithMigrations(migrations ...migration.Migration) *Component {
	c.migrations = append(c.migrations, migrations...)
	return c
}

// DB returns the underlying *DB, or nil if not started or disabled.
func (c *Component) DB() *DB {
	return c.db
}

// Name returns the component name.
func (c *Component) Name() string { return "database" }

// Start connects to the database and runs the registered migrations.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	db, err := NewWithDialector(ctx, c.driver(c.cfg.DSN), c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.db = db

	if c.cfg.AutoMigrate && len(c.migrations) > 0 {
		if _, err := migration.NewRunner(db.GormDB, c.log).Add(c.migrations...).Run(ctx); err != nil {
			_ = db.Close()
			c.db = nil
			return fmt.Errorf("database migrate: %w", err)
		}
	}
	return nil
}

// Stop closes the database connection.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health returns the current health status of the database.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case !c.cfg.Enabled:
		h.Status = component.StatusDisabled
	case c.db == nil:
		h.Status, h.Message = component.StatusUnhealthy, "database not initialized"
	default:
		if err := c.db.PingContext(ctx); err != nil {
			h.Status, h.Message = component.StatusUnhealthy, fmt.Sprintf("ping failed: %v", err)
		}
	}
	return h
}

// Describe returns the startup summary line.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("dsn=%s pool=%d/%d", c.cfg.DSN, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if !c.cfg.Enabled {
		details = "disabled"
	} else if c.cfg.AutoMigrate {
		details += " auto-migrate=on"
	}
	return component.Description{Name: "Database", Type: "sqlite", Details: details}
}

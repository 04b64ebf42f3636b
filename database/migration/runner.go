// Package migration applies ordered GORM schema migrations, recording each
// applied ID in a schema_migrations table.
package migration

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/llmgate/logger"
)

// Migration describes a single schema change.
type Migration struct {
	ID          string
	Description string
	Up          func(tx *gorm.DB) error
}

type schemaMigration struct {
	ID        string `gorm:"primaryKey;size:255"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// Runner applies migrations in registration order.
type Runner struct {
	db         *gorm.DB
	log        *logger.Logger
	migrations []Migration
}

// NewRunner creates a runner bound to db.
func NewRunner(db *gorm.DB, log *logger.Logger) *Runner {
	return &Runner{db: db, log: log.WithComponent("migration")}
}

// Add registers migrations to be applied.
func (r *Runner) Add(migrations ...Migration) *Runner {
	r.migrations = append(r.migrations, migrations...)
	return r
}

// Run applies all pending migrations, each in its own transaction, and
// returns how many were applied.
func (r *Runner) Run(ctx context.Context) (int, error) {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := 0
	for _, m := range r.migrations {
		var count int64
		if err := db.Model(&schemaMigration{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return applied, fmt.Errorf("failed to check migration %s: %w", m.ID, err)
		}
		if count > 0 {
			r.log.Debug("Migration already applied", logger.Fields("id", m.ID))
			continue
		}

		r.log.Info("Applying migration", logger.Fields("id", m.ID, "description", m.Description))
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{ID: m.ID, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}
		applied++
	}
	return applied, nil
}

// Applied returns the IDs of the applied migrations in application order.
func (r *Runner) Applied(ctx context.Context) ([]string, error) {
	var rows []schemaMigration
	if err := r.db.WithContext(ctx).Order("applied_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}

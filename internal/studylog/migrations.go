package studylog

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/at-ishikawa/studylog/internal/database"
)

type migration struct {
	version int
	name    string
	up      func(ctx context.Context, tx *sqlx.Tx, d dialect) error
}

// migrations are applied in order and recorded in schema_migrations.
// Each step must also be safe on databases created before schema_migrations existed.
var migrations = []migration{
	{
		version: 1,
		name:    "create learning_log",
		up: func(ctx context.Context, tx *sqlx.Tx, d dialect) error {
			_, err := tx.ExecContext(ctx, d.createLearningLog)
			return err
		},
	},
	{
		version: 2,
		name:    "add learning_log.study_time",
		up: func(ctx context.Context, tx *sqlx.Tx, d dialect) error {
			exists, err := d.hasColumn(ctx, tx, "learning_log", "study_time")
			if err != nil {
				return err
			}
			if exists {
				return nil
			}
			_, err = tx.ExecContext(ctx, d.addStudyTime)
			return err
		},
	},
}

func migrate(ctx context.Context, db *sqlx.DB, d dialect, logger *zap.Logger, now func() time.Time) error {
	if _, err := db.ExecContext(ctx, d.createSchemaMigrations); err != nil {
		return fmt.Errorf("db.ExecContext(create schema_migrations) > %w", err)
	}

	var current int
	if err := db.GetContext(ctx, &current, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return fmt.Errorf("db.GetContext(schema version) > %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := database.RunInTx(ctx, db, func(ctx context.Context, tx *sqlx.Tx) error {
			if err := m.up(ctx, tx, d); err != nil {
				return fmt.Errorf("migration %d (%s) > %w", m.version, m.name, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
				m.version, m.name, now().UTC().Format(time.RFC3339)); err != nil {
				return fmt.Errorf("tx.ExecContext(record migration %d) > %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		logger.Info("applied schema migration",
			zap.Int("version", m.version),
			zap.String("name", m.name),
			zap.String("dialect", d.name),
		)
	}
	return nil
}

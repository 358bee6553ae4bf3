package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_artifacts",
		SQL: `CREATE TABLE IF NOT EXISTS artifacts (
  id              BIGSERIAL      PRIMARY KEY,
  kind            TEXT           NOT NULL CHECK (kind IN ('proposal', 'contract')),
  client_name     TEXT           NOT NULL,
  document_number TEXT           NOT NULL DEFAULT '',
  model           TEXT           NOT NULL DEFAULT '',
  allowance       BIGINT         NOT NULL DEFAULT 0 CHECK (allowance >= 0),
  amount          NUMERIC(14, 2) NOT NULL DEFAULT 0,
  filename        TEXT           NOT NULL,
  storage_path    TEXT           NOT NULL UNIQUE,
  size            BIGINT         NOT NULL CHECK (size >= 0),
  created_at      TIMESTAMPTZ    NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_artifacts_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_artifacts_created_at ON artifacts (created_at);`,
	},
	{
		Name: "create_index_artifacts_kind",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_artifacts_kind ON artifacts (kind);`,
	},
}

// EnsureMigrated checks if the artifacts table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logrus.Logger, dbHost string) error {
	start := time.Now()
	entry := log.WithFields(logrus.Fields{
		"component": "database",
		"db_host":   dbHost,
	})

	entry.WithField("event", "db_migration_check").Info("checking schema")

	var exists bool
	query := "SELECT to_regclass('public.artifacts') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		entry.WithFields(logrus.Fields{
			"event":       "db_migration_failed",
			"duration_ms": time.Since(start).Milliseconds(),
		}).WithError(err).Error("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		entry.WithFields(logrus.Fields{
			"event":       "db_migration_skip",
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("schema already exists, skipping migration")
		return nil
	}

	entry.WithField("event", "db_migration_start").Info("applying schema")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			entry.WithFields(logrus.Fields{
				"event":            "db_migration_failed",
				"migration_step":   step.Name,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			}).WithError(err).Error("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		entry.WithFields(logrus.Fields{
			"event":            "db_migration_step",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Info("migration step applied")
	}

	entry.WithFields(logrus.Fields{
		"event":       "db_migration_success",
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("schema migrated")
	return nil
}

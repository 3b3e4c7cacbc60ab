// Package migration bootstraps the facility and document schema on first start.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"facilitydocs/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelQuery reports whether the schema was already created. documents is
// created last, so its presence means every step ran.
const sentinelQuery = "SELECT to_regclass('public.documents') IS NOT NULL"

var steps = []migrationStep{
	{
		Name: "create_table_facilities",
		SQL: `CREATE TABLE IF NOT EXISTS facilities (
  id          TEXT             PRIMARY KEY,
  name        TEXT             NOT NULL,
  location    TEXT             NOT NULL DEFAULT '',
  country     TEXT             NOT NULL,
  latitude    DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (latitude BETWEEN -90 AND 90),
  longitude   DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (longitude BETWEEN -180 AND 180),
  status      TEXT             NOT NULL DEFAULT 'planned',
  production  TEXT             NOT NULL DEFAULT '',
  processing  TEXT             NOT NULL DEFAULT '',
  notes       TEXT             NOT NULL DEFAULT '',
  website     TEXT             NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_facilities_country_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_facilities_country_name ON facilities (country, name);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id           TEXT        PRIMARY KEY,
  title        TEXT,
  author       TEXT,
  type         TEXT,
  format       TEXT,
  description  TEXT,
  facility_id  TEXT        REFERENCES facilities (id) ON DELETE SET NULL,
  url          TEXT,
  storage_path TEXT,
  thumbnail    TEXT,
  upload_date  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_upload_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_upload_date ON documents (upload_date DESC, id DESC);`,
	},
	{
		Name: "create_index_documents_facility_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_facility_id ON documents (facility_id);`,
	},
}

// EnsureMigrated checks whether the schema exists and runs every step if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	log := logging.Component(logger, "database").With("db_host", dbHost)
	start := time.Now()

	log.Info("db_migration_check", "event", "db_migration_check", "status", "starting")

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"event", "db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration",
			"event", "db_migration_skip",
			"status", "success",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "event", "db_migration_start", "status", "in_progress", "steps", len(steps))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"event", "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			"event", "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success",
		"event", "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tradedocs/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                   UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename             TEXT        NOT NULL,
  original_filename    TEXT        NOT NULL,
  storage_path         TEXT        NOT NULL UNIQUE,
  size                 BIGINT      NOT NULL CHECK (size >= 0),
  content_type         TEXT        NOT NULL,
  document_type        TEXT        NOT NULL DEFAULT 'generic',
  sender_company_id    TEXT        NOT NULL,
  recipient_company_id TEXT        NOT NULL,
  status               TEXT        NOT NULL DEFAULT 'uploaded',
  processed_at         TIMESTAMPTZ,
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_companies",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_companies ON documents (sender_company_id, recipient_company_id);`,
	},
	{
		Name: "create_index_documents_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status ON documents (status);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
	{
		Name: "create_table_document_content",
		SQL: `CREATE TABLE IF NOT EXISTS document_content (
  id               UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id      UUID             NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  field_name       TEXT             NOT NULL,
  field_value      TEXT             NOT NULL,
  confidence_score DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (confidence_score >= 0 AND confidence_score <= 1),
  is_verified      BOOLEAN          NOT NULL DEFAULT FALSE,
  updated_at       TIMESTAMPTZ      NOT NULL DEFAULT now(),
  UNIQUE (document_id, field_name)
);`,
	},
	{
		Name: "create_index_document_content_document_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_content_document_id ON document_content (document_id);`,
	},
	{
		Name: "create_table_product_mappings",
		SQL: `CREATE TABLE IF NOT EXISTS product_mappings (
  id                UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  from_company_id   TEXT             NOT NULL,
  to_company_id     TEXT             NOT NULL,
  from_product_code TEXT             NOT NULL,
  to_product_code   TEXT             NOT NULL,
  confidence_score  DOUBLE PRECISION NOT NULL DEFAULT 0.5 CHECK (confidence_score >= 0 AND confidence_score <= 1),
  usage_count       INTEGER          NOT NULL DEFAULT 0 CHECK (usage_count >= 0),
  is_manual         BOOLEAN          NOT NULL DEFAULT FALSE,
  created_by        TEXT             NOT NULL DEFAULT '',
  last_used         TIMESTAMPTZ      NOT NULL DEFAULT now(),
  created_at        TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ      NOT NULL DEFAULT now(),
  UNIQUE (from_company_id, to_company_id, from_product_code)
);`,
	},
	{
		Name: "create_index_product_mappings_lookup",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_product_mappings_lookup ON product_mappings (from_company_id, to_company_id, confidence_score DESC, usage_count DESC);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	start := time.Now()

	log.Info("db_migration_check", map[string]any{
		"status":  "starting",
		"db_host": dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed", err, map[string]any{
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip", map[string]any{
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	log.Info("db_migration_start", map[string]any{"db_host": dbHost})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed", err, map[string]any{
				"migration_step":   step.Name,
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step", map[string]any{
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Info("db_migration_success", map[string]any{
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

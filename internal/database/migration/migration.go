package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"awdtrack/internal/database"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by an early step. All steps commit together, so
// its presence means the whole schema is in place.
const sentinelTable = "public.documents"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                    UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  awd_reference_number  TEXT        NOT NULL,
  subject               TEXT        NOT NULL,
  originating_office    TEXT        NOT NULL DEFAULT '',
  date_of_document      DATE,
  fsis_reference_number TEXT        NOT NULL DEFAULT '',
  awd_received_date     DATE,
  forwarded_by          TEXT        NOT NULL,
  forwarded_to          TEXT        NOT NULL,
  forwarded_to_name     TEXT        NOT NULL DEFAULT '',
  division              TEXT        NOT NULL DEFAULT '',
  remarks               TEXT        NOT NULL DEFAULT '',
  status                TEXT        NOT NULL,
  working_days          INTEGER     NOT NULL DEFAULT 0 CHECK (working_days >= 0),
  start_date            DATE,
  end_date              DATE,
  date_time_submitted   TIMESTAMPTZ NOT NULL DEFAULT now(),
  assigned_inspector    TEXT        NOT NULL DEFAULT '',
  received_by           TEXT        NOT NULL DEFAULT '',
  deadline              DATE
);`,
	},
	{
		Name: "create_unique_index_documents_awd_reference_number",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS uq_documents_awd_reference_number ON documents (awd_reference_number);`,
	},
	{
		Name: "create_index_documents_status_forwarded_to",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status_forwarded_to ON documents (status, forwarded_to);`,
	},
	{
		Name: "create_index_documents_date_time_submitted",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_date_time_submitted ON documents (date_time_submitted);`,
	},
	{
		Name: "create_table_tracking",
		SQL: `CREATE TABLE IF NOT EXISTS tracking (
  id                   UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id          UUID        NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  awd_reference_number TEXT        NOT NULL,
  action               TEXT        NOT NULL,
  status               TEXT        NOT NULL,
  forwarded_by         TEXT        NOT NULL,
  forwarded_to         TEXT        NOT NULL,
  remarks              TEXT        NOT NULL DEFAULT '',
  action_timestamp     TIMESTAMPTZ NOT NULL DEFAULT now(),
  snapshot             JSONB       NOT NULL
);`,
	},
	{
		Name: "create_index_tracking_document_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tracking_document_id ON tracking (document_id, action_timestamp);`,
	},
	{
		Name: "create_table_mandays",
		SQL: `CREATE TABLE IF NOT EXISTS mandays (
  id                    UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id           UUID        NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  awd_reference_number  TEXT        NOT NULL,
  division              TEXT        NOT NULL DEFAULT '',
  original_working_days INTEGER     NOT NULL,
  actual_working_days   INTEGER     NOT NULL,
  inspector_name        TEXT        NOT NULL,
  start_date            DATE        NOT NULL,
  end_date              DATE        NOT NULL,
  date_recorded         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_mandays_document_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_mandays_document_id ON mandays (document_id);`,
	},
	{
		Name: "create_table_return_inspector",
		SQL: `CREATE TABLE IF NOT EXISTS return_inspector (
  id                   UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id          UUID        NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  awd_reference_number TEXT        NOT NULL,
  division             TEXT        NOT NULL DEFAULT '',
  remarks              TEXT        NOT NULL DEFAULT '',
  snapshot             JSONB       NOT NULL,
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_return_to_awd",
		SQL: `CREATE TABLE IF NOT EXISTS return_to_awd (
  id                   UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id          UUID        NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  awd_reference_number TEXT        NOT NULL,
  division             TEXT        NOT NULL DEFAULT '',
  remarks              TEXT        NOT NULL DEFAULT '',
  snapshot             JSONB       NOT NULL,
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_document_attachments",
		SQL: `CREATE TABLE IF NOT EXISTS document_attachments (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id  UUID        NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_accounts",
		SQL: `CREATE TABLE IF NOT EXISTS accounts (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT        NOT NULL,
  email         TEXT        NOT NULL,
  division      TEXT        NOT NULL,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_unique_index_accounts_email",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS uq_accounts_email ON accounts (lower(email));`,
	},
}

// EnsureMigrated runs the schema steps unless the sentinel table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists)
	if err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Int("steps", len(steps)).Send()

	err = database.WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, step := range steps {
			stepStart := time.Now()
			if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
				log.Error().
					Str("event", "db_migration_failed").
					Str("status", "error").
					Str("migration_step", step.Name).
					Err(err).
					Int64("duration_ms", time.Since(start).Milliseconds()).
					Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
					Send()
				return fmt.Errorf("migration step %s failed: %w", step.Name, err)
			}

			log.Info().
				Str("event", "db_migration_step").
				Str("status", "success").
				Str("migration_step", step.Name).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Send()
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()

	return nil
}

package migration

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sentinelQuery = "SELECT to_regclass($1) IS NOT NULL"

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()

	t.Run("skips when schema exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		var buf bytes.Buffer
		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WithArgs(sentinelTable).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err = EnsureMigrated(ctx, db, zerolog.New(&buf), "db.local")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Contains(t, buf.String(), `"event":"db_migration_skip"`)
		assert.Contains(t, buf.String(), `"db_host":"db.local"`)
	})

	t.Run("runs every step on empty database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		var buf bytes.Buffer
		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WithArgs(sentinelTable).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		for _, step := range steps {
			mock.ExpectExec(regexp.QuoteMeta(step.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectCommit()

		err = EnsureMigrated(ctx, db, zerolog.New(&buf), "db.local")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, len(steps), bytes.Count(buf.Bytes(), []byte(`"event":"db_migration_step"`)))
		assert.Contains(t, buf.String(), `"event":"db_migration_success"`)
	})

	t.Run("stops at failing step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		var buf bytes.Buffer
		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WithArgs(sentinelTable).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(steps[1].SQL)).WillReturnError(errors.New("permission denied"))
		mock.ExpectRollback()

		err = EnsureMigrated(ctx, db, zerolog.New(&buf), "db.local")
		assert.ErrorContains(t, err, "migration step "+steps[1].Name+" failed")
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Contains(t, buf.String(), `"level":"error"`)
		assert.Contains(t, buf.String(), `"migration_step":"`+steps[1].Name+`"`)
	})

	t.Run("failure after sentinel step rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		failAt := -1
		for i, step := range steps {
			if step.Name == "create_table_tracking" {
				failAt = i
			}
		}
		require.Greater(t, failAt, 1)

		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WithArgs(sentinelTable).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		for _, step := range steps[:failAt] {
			mock.ExpectExec(regexp.QuoteMeta(step.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectExec(regexp.QuoteMeta(steps[failAt].SQL)).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err = EnsureMigrated(ctx, db, zerolog.Nop(), "db.local")
		assert.ErrorContains(t, err, "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel check error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WithArgs(sentinelTable).
			WillReturnError(errors.New("connection reset"))

		err = EnsureMigrated(ctx, db, zerolog.Nop(), "db.local")
		assert.ErrorContains(t, err, "failed to check sentinel table")
	})
}

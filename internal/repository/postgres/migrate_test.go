package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "001_init", migrations[0].Version)
	assert.Contains(t, migrations[0].SQL, "meetings_no_overlap")
	assert.Contains(t, migrations[0].SQL, "tstzrange(start_time, end_time, '[)')")
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	migrations, err := Migrations()
	require.NoError(t, err)

	expectMigrations := func(mock sqlmock.Sqlmock, applied bool) {
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
		for _, m := range migrations {
			mock.ExpectBegin()
			mock.ExpectExec(`LOCK TABLE schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(`SELECT EXISTS`).WithArgs(m.Version).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(applied))
			if applied {
				mock.ExpectRollback()
				continue
			}
			mock.ExpectExec(`CREATE EXTENSION`).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectExec(`INSERT INTO schema_migrations`).WithArgs(m.Version).WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()
		}
	}

	t.Run("fresh database", func(t *testing.T) {
		db, mock := newMock(t)
		expectMigrations(mock, false)

		versions, err := Migrate(ctx, db, logger)
		require.NoError(t, err)
		assert.Len(t, versions, len(migrations))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already applied", func(t *testing.T) {
		db, mock := newMock(t)
		expectMigrations(mock, true)

		versions, err := Migrate(ctx, db, logger)
		require.NoError(t, err)
		assert.Empty(t, versions)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

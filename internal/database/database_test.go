package database

import (
	"context"
	"path/filepath"
	"testing"

	"clubhouse-backend/internal/config"
	"clubhouse-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenSQLiteFileAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "club.db")

	db, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: path}, zap.NewNop())
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))
	require.NoError(t, Ping(context.Background(), db))

	for _, table := range []string{"users", "events", "event_attendees", "photos", "sessions"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.EventAttendee{}, "uk_event_attendee"))

	// Migrating twice is a no-op.
	require.NoError(t, Migrate(db))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	require.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	dsn, err := sqliteDSN(":memory:")
	require.NoError(t, err)
	assert.Equal(t, ":memory:?_foreign_keys=on", dsn)

	dsn, err = sqliteDSN("club.db?cache=shared")
	require.NoError(t, err)
	assert.Equal(t, "club.db?cache=shared&_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", dsn)
}

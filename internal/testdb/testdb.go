// Package testdb opens a migrated in-memory SQLite database for tests.
package testdb

import (
	"testing"

	"clubhouse-backend/internal/config"
	"clubhouse-backend/internal/database"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

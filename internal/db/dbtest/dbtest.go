// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vasiliy-maslov/crm-service/internal/config"
	"github.com/vasiliy-maslov/crm-service/internal/db"
)

// Open returns a migrated in-memory sqlite database closed at test cleanup.
func Open(tb testing.TB) *db.Database {
	tb.Helper()

	d, err := db.New(config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        ":memory:",
		AutoMigrate: true,
	})
	require.NoError(tb, err, "failed to open test database")

	tb.Cleanup(d.Close)
	return d
}

// Gorm is a shorthand for Open(tb).Gorm.
func Gorm(tb testing.TB) *gorm.DB {
	tb.Helper()
	return Open(tb).Gorm
}

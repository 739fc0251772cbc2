// Package dbtest opens migrated in-memory databases for repository tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/slopify/slopify-api/internal/infrastructure/database"
)

// Open returns a fresh, migrated SQLite database private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	// one connection keeps every query on the same in-memory database
	db, err := database.Connect(database.Config{
		DSN:          "sqlite://:memory:",
		MaxOpenConns: 1,
		LogLevel:     gormlogger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(context.Background(), db, zerolog.Nop()))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Package testdb opens migrated in-memory databases for tests.
package testdb

import (
	"testing"

	"gorm.io/gorm"

	"portfolio-service/internal/config"
	"portfolio-service/internal/repository"
)

// Open returns a fresh in-memory SQLite database with the projects table.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := config.ConnectDatabase(&config.Config{
		DBDriver: config.DriverSQLite,
		DBName:   ":memory:",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

package database

import (
	"fleetops-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB. A Postgres DSN gets the postgres driver;
// an empty DSN falls back to an embedded SQLite file so single-node
// deployments run without a database server.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer, Render).
func Open(dsn, sqlitePath string) (*gorm.DB, error) {
	if dsn == "" {
		return gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for core models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.ScriptRun{})
}

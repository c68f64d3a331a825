package database

import (
	"fmt"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mindtreelog/collectibles/internal/collections"
)

// OpenSQLite establishes a SQLite connection and performs schema migrations.
// TranslateError is enabled so uniqueness violations surface as
// gorm.ErrDuplicatedKey, which the reconciliation service maps to an
// ordinary duplicate outcome.
func OpenSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&collections.Video{},
		&collections.Post{},
		&collections.Paper{},
		&collections.Repo{},
		&collections.ChangeRecord{},
		&migrationRecord{},
	); err != nil {
		return nil, err
	}

	if err := applyMigrations(db, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("path", path))
	}

	return db, nil
}

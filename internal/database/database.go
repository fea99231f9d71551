package database

import (
	"fmt"
	"strings"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open establishes a database connection and applies pending migrations.
//
// The URL scheme selects the driver: postgres:// or postgresql:// connect via
// the postgres driver, anything else is treated as a SQLite path. The schema
// is portable between the two; tests run on in-memory SQLite.
func Open(databaseURL string, logger *zap.Logger) (*gorm.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url is required")
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		dialector = postgres.Open(databaseURL)
	default:
		dialector = sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if _, ok := dialector.(*postgres.Dialector); !ok {
		// SQLite serializes writers anyway; a single connection avoids
		// SQLITE_BUSY under concurrent transactions.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := RunMigrations(db, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("url", redactURL(databaseURL)))
	}

	return db, nil
}

// redactURL strips credentials before logging a connection URL.
func redactURL(databaseURL string) string {
	schemeEnd := strings.Index(databaseURL, "://")
	if schemeEnd < 0 {
		return databaseURL
	}
	at := strings.LastIndex(databaseURL, "@")
	if at < 0 {
		return databaseURL
	}
	return databaseURL[:schemeEnd+3] + "***" + databaseURL[at:]
}

package sqlcatalog

import (
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open creates a GORM connection to a SQLite database at dsn (a file
// path, or ":memory:" for tests) and runs the media table migration.
// Returns a ready-to-use *gorm.DB, cgo-free via glebarez/sqlite.
func Open(dsn string, logger *slog.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	if err := db.AutoMigrate(&mediaRow{}); err != nil {
		return nil, fmt.Errorf("migrating catalog schema: %w", err)
	}

	if dsn == ":memory:" {
		// A fresh connection per pooled conn would see an empty
		// in-memory database; pin the pool to one connection so all
		// callers share the same instance.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver).
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Options tunes OpenSQLite. The zero value is usable.
type Options struct {
	// BusyTimeout is applied as PRAGMA busy_timeout. Zero means 5s.
	BusyTimeout time.Duration
	// Logger receives GORM statement logs. Nil silences them.
	Logger gormlogger.Interface
	// Tracing installs the GORM OpenTelemetry plugin so every statement
	// becomes a child span of the caller's context.
	Tracing bool
}

const defaultBusyTimeout = 5 * time.Second

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
//
// The pool is pinned to a single connection: every statement against the
// file is serialized, and the connection-scoped PRAGMAs below stay in effect
// for the lifetime of the handle.
func OpenSQLite(path string, opts Options) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	lg := opts.Logger
	if lg == nil {
		lg = gormlogger.Discard
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: lg})
	if err != nil {
		return nil, err
	}

	// Pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxIdleTime(0)
	sqlDB.SetConnMaxLifetime(0)

	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}

	// PRAGMAs
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		fmt.Sprintf("PRAGMA busy_timeout=%d;", busy.Milliseconds()),
	}
	for _, p := range pragmas {
		if err := db.Exec(p).Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if opts.Tracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics(), tracing.WithoutQueryVariables())); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	return db, nil
}

// Close releases the handle's underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

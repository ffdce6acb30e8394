// Package storage owns the local SQLite database that keeps client state
// between runs, and the token store built on it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pressly/goose/v3"
	"github.com/tracetrail/tracetrail/internal/client/storage/migrations"
	"github.com/tracetrail/tracetrail/internal/common"
	"github.com/tracetrail/tracetrail/internal/filex"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// DefaultDBPath is $XDG_DATA_HOME/tracetrail/tracetrail.db.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, common.AppName, common.AppName+".db")
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite file at dsn and applies
// migrations. ":memory:" is accepted for tests.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn != ":memory:" {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer keeps SQLite from returning SQLITE_BUSY and keeps a
	// :memory: database on a single connection.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Package repomanager vends the document repository for the configured
// database driver and runs the embedded goose migrations for it.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/worktracker/internal/dbx"
	"github.com/dmitrijs2005/worktracker/internal/server/repositories/documents"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Documents(db dbx.DBTX) documents.Repository
}

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// Open connects to the database for driver ("postgres" or "sqlite") and
// returns the matching manager. The connection is verified with a ping.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	var (
		m          RepositoryManager
		driverName string
	)
	switch driver {
	case "postgres":
		m, driverName = NewPostgresRepositoryManager(), "pgx"
	case "sqlite":
		m, driverName = NewSQLiteRepositoryManager(), "sqlite"
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// a single connection keeps in-memory databases alive and serializes writers
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, m, nil
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/worktracker/internal/dbx"
	"github.com/dmitrijs2005/worktracker/internal/server/repositories/documents"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories. Meant for
// development and single-node setups.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	return documents.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", "sqlite")
}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

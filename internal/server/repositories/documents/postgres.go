package documents

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/worktracker/internal/dbx"
	"github.com/dmitrijs2005/worktracker/internal/server/models"
)

// PostgresRepository implements document storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns every document of collection, newest first.
func (r *PostgresRepository) List(ctx context.Context, collection string) ([]*models.Document, error) {
	query := `SELECT id, data, created_at, updated_at FROM documents
		WHERE collection = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	return scanDocuments(rows, collection)
}

// Insert stores a new document. CreatedAt and UpdatedAt are filled from
// the database clock.
func (r *PostgresRepository) Insert(ctx context.Context, doc *models.Document) error {
	query := `INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, doc.Collection, doc.ID, string(doc.Data)).
		Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update replaces the data of an existing document.
func (r *PostgresRepository) Update(ctx context.Context, doc *models.Document) error {
	query := `UPDATE documents SET data = $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, doc.Collection, doc.ID, string(doc.Data))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}

func scanDocuments(rows *sql.Rows, collection string) ([]*models.Document, error) {
	defer rows.Close()

	result := []*models.Document{}
	for rows.Next() {
		item := models.Document{Collection: collection}
		var data []byte
		if err := rows.Scan(&item.ID, &data, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		item.Data = data
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/dbx"
	"github.com/dmitrijs2005/worktracker/internal/server/models"
)

// sqliteTime is the layout the sqlite migration stores timestamps in.
const sqliteTime = "2006-01-02T15:04:05.000Z"

// SQLiteRepository implements document storage on SQLite. Ordering uses a
// per-collection sequence because timestamps may collide.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) List(ctx context.Context, collection string) ([]*models.Document, error) {
	query := `SELECT id, data, created_at, updated_at FROM documents
		WHERE collection = ?
		ORDER BY seq DESC`
	rows, err := r.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	result := []*models.Document{}
	for rows.Next() {
		item := models.Document{Collection: collection}
		var data, created, updated string
		if err := rows.Scan(&item.ID, &data, &created, &updated); err != nil {
			return nil, err
		}
		item.Data = []byte(data)
		item.CreatedAt, _ = time.Parse(sqliteTime, created)
		item.UpdatedAt, _ = time.Parse(sqliteTime, updated)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, doc *models.Document) error {
	now := r.now().UTC()
	ts := now.Format(sqliteTime)
	query := `INSERT INTO documents (collection, id, data, seq, created_at, updated_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM documents WHERE collection = ?), ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, doc.Collection, doc.ID, string(doc.Data), doc.Collection, ts, ts); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	doc.CreatedAt, _ = time.Parse(sqliteTime, ts)
	doc.UpdatedAt = doc.CreatedAt
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, doc *models.Document) error {
	ts := r.now().UTC().Format(sqliteTime)
	query := `UPDATE documents SET data = ?, updated_at = ? WHERE collection = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, string(doc.Data), ts, doc.Collection, doc.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.RequireAffected(res); err != nil {
		return err
	}
	doc.UpdatedAt, _ = time.Parse(sqliteTime, ts)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, collection, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}

// Package documents persists collection documents in PostgreSQL (pgx) or
// SQLite (modernc). Both implementations work over a dbx.DBTX so they can
// run inside a transaction.
package documents

import (
	"context"

	"github.com/dmitrijs2005/worktracker/internal/server/models"
)

// Repository stores documents grouped by collection.
//
// List returns the newest documents first. Update and Delete return
// common.ErrorNotFound when no document has the given collection and id.
type Repository interface {
	List(ctx context.Context, collection string) ([]*models.Document, error)
	Insert(ctx context.Context, doc *models.Document) error
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, collection, id string) error
}

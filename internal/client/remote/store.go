// Package remote contains the durable tier behind the optimistic engine: a
// collection-scoped document store with list, create, replace and delete.
package remote

import (
	"context"

	pb "github.com/dmitrijs2005/worktracker/internal/proto"
)

// Document is a stored record: its durable id and JSON body.
type Document = pb.Document

// Store is the document service the engine confirms writes against. Writes
// to one document are last-write-wins; there are no cross-collection
// transactions.
type Store interface {
	ListAll(ctx context.Context, collection string) ([]Document, error)
	// Create stores data and returns the durable id assigned to it.
	Create(ctx context.Context, collection string, data []byte) (string, error)
	// Replace overwrites the document body; the id never changes.
	Replace(ctx context.Context, collection, id string, data []byte) error
	Delete(ctx context.Context, collection, id string) error
}

package remote

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/worktracker/internal/logging"
	"github.com/dmitrijs2005/worktracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/worktracker/internal/server/services"
)

// LocalStore keeps documents in a SQLite file on this machine. It runs the
// same document service as the server, so ids and validation match.
type LocalStore struct {
	db  *sql.DB
	svc *services.DocumentService
}

// OpenLocalStore opens (creating if needed) the database at path and
// applies the schema.
func OpenLocalStore(ctx context.Context, path string, logger logging.Logger) (*LocalStore, error) {
	db, m, err := repomanager.Open(ctx, "sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &LocalStore{db: db, svc: services.NewDocumentService(db, m, logger)}, nil
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}

func (s *LocalStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	docs, err := s.svc.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, Document{ID: d.ID, Data: d.Data})
	}
	return out, nil
}

func (s *LocalStore) Create(ctx context.Context, collection string, data []byte) (string, error) {
	return s.svc.Create(ctx, collection, data)
}

func (s *LocalStore) Replace(ctx context.Context, collection, id string, data []byte) error {
	return s.svc.Replace(ctx, collection, id, data)
}

func (s *LocalStore) Delete(ctx context.Context, collection, id string) error {
	return s.svc.Delete(ctx, collection, id)
}

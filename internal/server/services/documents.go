// Package services holds the server business logic on top of the
// repositories.
package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/dbx"
	"github.com/dmitrijs2005/worktracker/internal/logging"
	"github.com/dmitrijs2005/worktracker/internal/server/models"
	"github.com/dmitrijs2005/worktracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// newID is a seam for tests that need deterministic ids.
var newID = func() string { return uuid.NewString() }

// DocumentService validates requests and assigns ids for the document store.
// Documents are opaque JSON objects; an "id" field inside the data is
// dropped so the stored id is the only one.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewDocumentService(db *sql.DB, repomanager repomanager.RepositoryManager, logger logging.Logger) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: repomanager,
		logger:      logger.With("module", "documents"),
	}
}

func checkCollection(collection string) error {
	if !common.IsCollection(collection) {
		return fmt.Errorf("%w: %q", common.ErrUnknownCollection, collection)
	}
	return nil
}

// normalize checks data is a JSON object and strips its id field.
func normalize(data []byte) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: document must be a JSON object", common.ErrValidation)
	}
	delete(fields, "id")
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns all documents of collection, newest first.
func (s *DocumentService) List(ctx context.Context, collection string) ([]*models.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	docs, err := s.repomanager.Documents(s.db).List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return docs, nil
}

// Create stores data under a fresh id and returns it.
func (s *DocumentService) Create(ctx context.Context, collection string, data []byte) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	body, err := normalize(data)
	if err != nil {
		return "", err
	}

	doc := &models.Document{Collection: collection, ID: newID(), Data: body}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Documents(tx).Insert(ctx, doc)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.logger.Debug(ctx, "document created", "collection", collection, "id", doc.ID)
	return doc.ID, nil
}

// Replace overwrites the data of an existing document; its id never changes.
func (s *DocumentService) Replace(ctx context.Context, collection, id string, data []byte) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: id is required", common.ErrValidation)
	}
	body, err := normalize(data)
	if err != nil {
		return err
	}

	err = s.repomanager.Documents(s.db).Update(ctx, &models.Document{Collection: collection, ID: id, Data: body})
	return s.storeError(err, collection, id)
}

func (s *DocumentService) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: id is required", common.ErrValidation)
	}

	err := s.repomanager.Documents(s.db).Delete(ctx, collection, id)
	return s.storeError(err, collection, id)
}

func (s *DocumentService) storeError(err error, collection, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound):
		return fmt.Errorf("%w: %s/%s", common.ErrorNotFound, collection, id)
	default:
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
}

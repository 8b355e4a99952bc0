package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/logging"
	"github.com/dmitrijs2005/worktracker/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteService(t *testing.T) *DocumentService {
	t.Helper()
	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, m, err := repomanager.Open(ctx, "sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, m.RunMigrations(ctx, db))
	return NewDocumentService(db, m, logging.Discard())
}

func sequentialIDs(t *testing.T) {
	t.Helper()
	orig := newID
	t.Cleanup(func() { newID = orig })
	n := 0
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestDocumentService_CreateListReplaceDelete(t *testing.T) {
	sequentialIDs(t)
	s := newSQLiteService(t)
	ctx := context.Background()

	id1, err := s.Create(ctx, common.CollectionDemands, []byte(`{"id":"temp-1","title":"first"}`))
	require.NoError(t, err)
	assert.Equal(t, "id-1", id1)
	id2, err := s.Create(ctx, common.CollectionDemands, []byte(`{"title":"second"}`))
	require.NoError(t, err)

	docs, err := s.List(ctx, common.CollectionDemands)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, id2, docs[0].ID)
	assert.JSONEq(t, `{"title":"first"}`, string(docs[1].Data))

	require.NoError(t, s.Replace(ctx, common.CollectionDemands, id1, []byte(`{"title":"renamed"}`)))
	docs, err = s.List(ctx, common.CollectionDemands)
	require.NoError(t, err)
	assert.Equal(t, id1, docs[1].ID)
	assert.JSONEq(t, `{"title":"renamed"}`, string(docs[1].Data))

	require.NoError(t, s.Delete(ctx, common.CollectionDemands, id2))
	docs, err = s.List(ctx, common.CollectionDemands)
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestDocumentService_Validation(t *testing.T) {
	s := newSQLiteService(t)
	ctx := context.Background()

	_, err := s.List(ctx, "users")
	require.ErrorIs(t, err, common.ErrUnknownCollection)

	_, err = s.Create(ctx, "users", []byte(`{}`))
	require.ErrorIs(t, err, common.ErrValidation)

	for _, body := range []string{``, `[]`, `"text"`, `null`, `{"broken":`} {
		_, err = s.Create(ctx, common.CollectionEmployees, []byte(body))
		require.ErrorIs(t, err, common.ErrValidation, body)
	}

	require.ErrorIs(t, s.Replace(ctx, common.CollectionEmployees, "", []byte(`{}`)), common.ErrValidation)
	require.ErrorIs(t, s.Delete(ctx, common.CollectionEmployees, ""), common.ErrValidation)
	require.ErrorIs(t, s.Delete(ctx, "nope", "x"), common.ErrUnknownCollection)
}

func TestDocumentService_MissingIDs(t *testing.T) {
	s := newSQLiteService(t)
	ctx := context.Background()

	err := s.Replace(ctx, common.CollectionVacations, "missing", []byte(`{}`))
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Contains(t, err.Error(), "vacations/missing")

	require.ErrorIs(t, s.Delete(ctx, common.CollectionVacations, "missing"), common.ErrorNotFound)
}

func TestDocumentService_DatabaseErrorsAreInternal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewDocumentService(db, repomanager.NewPostgresRepositoryManager(), logging.Discard())
	ctx := context.Background()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("connection reset"))
	_, err = s.List(ctx, common.CollectionStatuses)
	require.ErrorIs(t, err, common.ErrorInternal)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO documents`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()
	_, err = s.Create(ctx, common.CollectionStatuses, []byte(`{"label":"x"}`))
	require.ErrorIs(t, err, common.ErrorInternal)

	mock.ExpectExec(`UPDATE documents`).WillReturnError(errors.New("boom"))
	err = s.Replace(ctx, common.CollectionStatuses, "s1", []byte(`{}`))
	require.ErrorIs(t, err, common.ErrorInternal)
	require.False(t, errors.Is(err, common.ErrorNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

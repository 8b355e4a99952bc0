package remote

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tracker.db")

	s, err := OpenLocalStore(ctx, path, logging.Discard())
	require.NoError(t, err)

	id, err := s.Create(ctx, common.CollectionEmployees, []byte(`{"name":"Ann","contractClass":"permanent"}`))
	require.NoError(t, err)
	other, err := s.Create(ctx, common.CollectionEmployees, []byte(`{"name":"Bo","contractClass":"outsourced"}`))
	require.NoError(t, err)
	require.NoError(t, s.Replace(ctx, common.CollectionEmployees, id, []byte(`{"name":"Ann B","contractClass":"permanent"}`)))
	require.NoError(t, s.Close())

	s, err = OpenLocalStore(ctx, path, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	docs, err := s.ListAll(ctx, common.CollectionEmployees)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, other, docs[0].ID)
	assert.Equal(t, id, docs[1].ID)
	assert.JSONEq(t, `{"name":"Ann B","contractClass":"permanent"}`, string(docs[1].Data))

	require.NoError(t, s.Delete(ctx, common.CollectionEmployees, other))
	require.ErrorIs(t, s.Delete(ctx, common.CollectionEmployees, other), common.ErrorNotFound)
	_, err = s.ListAll(ctx, "users")
	require.ErrorIs(t, err, common.ErrUnknownCollection)
}

func TestLocalStore_SatisfiesStore(t *testing.T) {
	var _ Store = (*LocalStore)(nil)
}

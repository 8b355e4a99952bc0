package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/google/uuid"
)

// Operation names passed to a MemoryStore hook.
const (
	OpList    = "list"
	OpCreate  = "create"
	OpReplace = "replace"
	OpDelete  = "delete"
)

// Call describes one MemoryStore request. ID is empty for list and create.
type Call struct {
	Op         string
	Collection string
	ID         string
}

// MemoryStore keeps documents in process memory. It backs offline sessions
// and tests. Listing returns the most recently created documents first.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]Document

	// Hook, when set, runs before every call; a non-nil error fails the call
	// without touching the stored documents. It may block.
	Hook func(ctx context.Context, call Call) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]Document)}
}

func (m *MemoryStore) before(ctx context.Context, call Call) error {
	if !common.IsCollection(call.Collection) {
		return fmt.Errorf("%w: %q", common.ErrUnknownCollection, call.Collection)
	}
	if m.Hook != nil {
		if err := m.Hook(ctx, call); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (m *MemoryStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	if err := m.before(ctx, Call{Op: OpList, Collection: collection}); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	src := m.docs[collection]
	out := make([]Document, len(src))
	for i, d := range src {
		out[i] = Document{ID: d.ID, Data: append(json.RawMessage(nil), d.Data...)}
	}
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, collection string, data []byte) (string, error) {
	if err := m.before(ctx, Call{Op: OpCreate, Collection: collection}); err != nil {
		return "", err
	}
	if !json.Valid(data) {
		return "", fmt.Errorf("%w: document is not valid JSON", common.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	doc := Document{ID: id, Data: append(json.RawMessage(nil), data...)}
	m.docs[collection] = append([]Document{doc}, m.docs[collection]...)
	return id, nil
}

func (m *MemoryStore) Replace(ctx context.Context, collection, id string, data []byte) error {
	if err := m.before(ctx, Call{Op: OpReplace, Collection: collection, ID: id}); err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: document is not valid JSON", common.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, d := range m.docs[collection] {
		if d.ID == id {
			m.docs[collection][i].Data = append(json.RawMessage(nil), data...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s/%s", common.ErrorNotFound, collection, id)
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := m.before(ctx, Call{Op: OpDelete, Collection: collection, ID: id}); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.docs[collection]
	for i, d := range docs {
		if d.ID == id {
			m.docs[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s/%s", common.ErrorNotFound, collection, id)
}

// Len returns the number of documents in collection.
func (m *MemoryStore) Len(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[collection])
}

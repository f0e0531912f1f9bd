package store

import (
	"context"
	"sync"

	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/observability"
)

// Memory is an in-memory document store for development and testing.
// Stored documents are deep-copied on the way in and out, so callers can
// mutate what they hold without leaking changes into the store.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]*diagram.Document
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]*diagram.Document)}
}

func (m *Memory) Get(ctx context.Context, id string) (*diagram.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.docs[id]
	observability.Store().OnLoad(ctx, "memory", id, ok)
	if !ok {
		return nil, nil
	}
	return d.Clone(), nil
}

func (m *Memory) Put(ctx context.Context, d *diagram.Document) error {
	if d.ID == "" {
		return ErrMissingID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[d.ID] = d.Clone()
	// Nothing is serialized here, so the size reported is zero.
	observability.Store().OnSave(ctx, "memory", d.ID, 0)
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *Memory) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)

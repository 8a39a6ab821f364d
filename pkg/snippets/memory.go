package snippets

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps snippets in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Snippet
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Snippet)}
}

// Save stores a copy of s.
func (m *MemoryStore) Save(ctx context.Context, s *Snippet) (string, error) {
	if err := prepare(s); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.items[s.ID] = clone(s)
	m.mu.Unlock()

	return s.ID, nil
}

// Get returns a copy of the stored snippet.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Snippet, error) {
	m.mu.RLock()
	s, ok := m.items[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

// List returns copies of all snippets, newest first.
func (m *MemoryStore) List(ctx context.Context) ([]*Snippet, error) {
	m.mu.RLock()
	list := make([]*Snippet, 0, len(m.items))
	for _, s := range m.items {
		list = append(list, clone(s))
	}
	m.mu.RUnlock()

	sortNewest(list)
	return list, nil
}

// Delete removes a snippet.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// Cleanup removes snippets older than maxAge.
func (m *MemoryStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.items {
		if s.CreatedAt.Before(cutoff) {
			delete(m.items, id)
		}
	}
	return nil
}

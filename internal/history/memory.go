package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelarchitect/models"
)

// MemoryStore keeps collections in process memory. Used when no persistent
// backend is configured and in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]models.HistoryEntry
	now         func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]models.HistoryEntry),
		now:         time.Now,
	}
}

// WithClock replaces the timestamp source; handy for deterministic ordering in tests.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Append(ctx context.Context, scope Scope, entry models.HistoryEntry) (models.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return models.HistoryEntry{}, storeErr(opAppend, err)
	}
	if !scope.Valid() {
		return models.HistoryEntry{}, storeErr(opAppend, ErrInvalidScope)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	created := m.now().UTC()
	entry.ID = uuid.NewString()
	entry.CreatedAt = &created
	path := scope.CollectionPath()
	m.collections[path] = append(m.collections[path], entry)
	return entry, nil
}

// Seed stores entries as given, keeping their IDs and timestamps.
func (m *MemoryStore) Seed(scope Scope, entries ...models.HistoryEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := scope.CollectionPath()
	m.collections[path] = append(m.collections[path], entries...)
}

func (m *MemoryStore) List(ctx context.Context, scope Scope) ([]models.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr(opList, err)
	}
	if !scope.Valid() {
		return nil, storeErr(opList, ErrInvalidScope)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.collections[scope.CollectionPath()]
	out := make([]models.HistoryEntry, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, scope Scope, id string) error {
	if err := ctx.Err(); err != nil {
		return storeErr(opDelete, err)
	}
	if !scope.Valid() {
		return storeErr(opDelete, ErrInvalidScope)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	path := scope.CollectionPath()
	m.collections[path] = RemoveByID(m.collections[path], id)
	return nil
}

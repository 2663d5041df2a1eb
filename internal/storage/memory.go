package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/johnayoung/go-dca-simulator/internal/models"
)

// MemoryStore keeps the record set in process memory. It backs tests and
// dry runs where no artifact should be left on disk.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.PurchaseRecord
	closed  bool
}

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveAll implements RecordStore.
func (m *MemoryStore) SaveAll(ctx context.Context, records []models.PurchaseRecord) error {
	if err := ctx.Err(); err != nil {
		return newStorageError("save", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return newStorageError("save", errors.New("store is closed"))
	}

	m.records = make([]models.PurchaseRecord, len(records))
	copy(m.records, records)
	return nil
}

// LoadAll implements RecordStore.
func (m *MemoryStore) LoadAll(ctx context.Context) ([]models.PurchaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, newStorageError("load", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, newStorageError("load", errors.New("store is closed"))
	}

	out := make([]models.PurchaseRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Close implements RecordStore.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Package storage provides the record store boundary between the purchase
// simulator and the reporting/ROI stages. The store is the single source
// of truth after a run: reporting and the return calculator re-read it
// rather than reusing in-memory simulator state, so every backend must
// round-trip the decimal text of each field exactly.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/johnayoung/go-dca-simulator/internal/models"
)

// RecordStore persists and reloads the ordered sequence of purchase
// records for a single run. SaveAll replaces the previous contents
// entirely; a DCA run is a full snapshot, not an append.
type RecordStore interface {
	// SaveAll overwrites the store with the given records, which must be
	// in date-ascending order.
	SaveAll(ctx context.Context, records []models.PurchaseRecord) error

	// LoadAll returns all persisted records in date-ascending order.
	// An empty store yields an empty slice, not an error.
	LoadAll(ctx context.Context) ([]models.PurchaseRecord, error)

	// Close releases any resources held by the backend.
	Close() error
}

// StorageError wraps a backend failure with the operation that caused it.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

func newStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// Config selects and parameterizes a record store backend.
type Config struct {
	Type string // "csv", "memory" or "duckdb"
	Path string // file path for csv and duckdb backends
}

// New creates the record store named by cfg.Type.
func New(cfg Config, logger *slog.Logger) (RecordStore, error) {
	switch cfg.Type {
	case "csv", "":
		return NewCSVStore(cfg.Path), nil
	case "memory":
		return NewMemoryStore(), nil
	case "duckdb":
		return NewDuckDBStore(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

// Package storage provides abstractions for persistent data storage.
//
// A Backend persists raw named blobs; Collection layers a typed
// whole-collection load/save cycle on top. Every mutation is
// load-full-collection, transform in memory, save-full-collection: a
// reader always observes either the pre- or post-save snapshot, never a
// partial one, provided the backend's Write is atomic. The per-collection
// mutex taken by Update serializes concurrent read-modify-write sequences
// within this process, which is what closes the classic lost-update race
// between two writers computing the same next identifier.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/softcentric/tracker/internal/metrics"
)

// Backend is the raw persistence layer beneath collections.
// Implementations must make Write atomic: a concurrent Read sees either
// the previous or the new blob in full.
type Backend interface {
	// Read returns the blob stored under name, or (nil, nil) if the name
	// has never been written. Never-initialized is not an error.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the blob stored under name atomically.
	Write(ctx context.Context, name string, data []byte) error

	// Close releases any resources held by the backend.
	Close() error
}

// Collection is a typed view of one named collection on a Backend.
// Construct exactly one Collection per (backend, name) pair; the mutex
// that guards read-modify-write cycles lives on the Collection itself.
type Collection[T any] struct {
	name    string
	backend Backend
	mu      sync.Mutex
}

// NewCollection returns a collection bound to name on the given backend.
func NewCollection[T any](backend Backend, name string) *Collection[T] {
	return &Collection[T]{name: name, backend: backend}
}

// Name returns the collection's name.
func (c *Collection[T]) Name() string { return c.name }

// Load reads the entire collection. A collection that has never been
// saved loads as an empty slice.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	data, err := c.backend.Read(ctx, c.name)
	if err != nil {
		metrics.CollectionErrors.WithLabelValues(c.name, "load").Inc()
		return nil, fmt.Errorf("load %s: %w", c.name, err)
	}
	metrics.CollectionLoads.WithLabelValues(c.name).Inc()
	if len(data) == 0 {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		metrics.CollectionErrors.WithLabelValues(c.name, "load").Inc()
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return records, nil
}

// Save rewrites the entire collection.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := c.backend.Write(ctx, c.name, data); err != nil {
		metrics.CollectionErrors.WithLabelValues(c.name, "save").Inc()
		return fmt.Errorf("save %s: %w", c.name, err)
	}
	metrics.CollectionSaves.WithLabelValues(c.name).Inc()
	return nil
}

// Update runs fn inside the collection's load-transform-save cycle while
// holding the collection mutex, so concurrent updates cannot lose each
// other's writes. fn receives the current records and returns the full
// replacement set; returning an error aborts without saving.
func (c *Collection[T]) Update(ctx context.Context, fn func(records []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.Load(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return c.Save(ctx, updated)
}

// NextID returns the identifier for a record appended to records: one more
// than the current count. This deliberately reproduces the legacy
// allocation scheme: it is not a monotonic sequence. Deleting the
// highest-numbered record and inserting a new one reissues the freed
// identifier. Callers that surface identifiers to users rely on these
// roughly-increasing semantics, so do not replace this with a persistent
// counter without migrating existing data.
func NextID[T any](records []T) int {
	return len(records) + 1
}

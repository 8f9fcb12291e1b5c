// Package jsonfile provides a flat-file implementation of the
// storage.Backend interface: one JSON file per collection in a data
// directory. This is the layout earlier deployments of the system wrote,
// so the files remain directly interchangeable with that data.
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/softcentric/tracker/internal/storage"
)

// Ensure Store implements storage.Backend
var _ storage.Backend = (*Store)(nil)

// Store persists each collection as <dir>/<name>.json.
type Store struct {
	dir string
}

// New creates a flat-file store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Read returns the collection file's contents, or (nil, nil) if the file
// does not exist yet. Collections are lazily created on first write.
func (s *Store) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}
	return data, nil
}

// Write replaces the collection file atomically: the data is written to a
// temp file in the same directory and renamed over the target, so a
// concurrent reader sees either the old or the new contents in full.
func (s *Store) Write(_ context.Context, name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace collection file: %w", err)
	}
	return nil
}

// Close is a no-op; the store holds no open handles between calls.
func (s *Store) Close() error { return nil }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

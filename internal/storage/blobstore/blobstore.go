// Package blobstore persists a whole collection as a single JSON file,
// rewritten atomically on every save.
package blobstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// BlobStore guards one collection file. Load/Save callers hold the embedded
// lock for the whole read-modify-write cycle.
type BlobStore struct {
	mu         sync.RWMutex
	path       string
	entityName string // for error messages: "task", "note"
}

// New creates a BlobStore for the collection file at path.
func New(path, entityName string) *BlobStore {
	return &BlobStore{path: path, entityName: entityName}
}

// Lock acquires an exclusive lock.
func (b *BlobStore) Lock() { b.mu.Lock() }

// Unlock releases an exclusive lock.
func (b *BlobStore) Unlock() { b.mu.Unlock() }

// RLock acquires a shared read lock.
func (b *BlobStore) RLock() { b.mu.RLock() }

// RUnlock releases a shared read lock.
func (b *BlobStore) RUnlock() { b.mu.RUnlock() }

// Load unmarshals the collection file into out. A missing file leaves out
// untouched, so callers start from an empty collection.
func (b *BlobStore) Load(out any) error {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s collection: %w", b.entityName, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s collection: %w", b.entityName, err)
	}
	return nil
}

// Save atomically rewrites the collection file using a temp file + rename.
func (b *BlobStore) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s collection: %w", b.entityName, err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create %s collection dir: %w", b.entityName, err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s collection tmp: %w", b.entityName, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("rename %s collection: %w", b.entityName, err)
	}
	return nil
}

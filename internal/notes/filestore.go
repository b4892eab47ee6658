package notes

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nikhil181511/smartplan/internal/storage/blobstore"
)

// FileStore persists the whole note collection as a single JSON file.
type FileStore struct {
	bs *blobstore.BlobStore
}

// NewFileStore creates a FileStore writing to dir/notes.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{bs: blobstore.New(filepath.Join(dir, "notes.json"), "note")}
}

func (fs *FileStore) load() ([]*Note, error) {
	var all []*Note
	if err := fs.bs.Load(&all); err != nil {
		return nil, err
	}
	return all, nil
}

// Create appends a note to the collection.
func (fs *FileStore) Create(_ context.Context, n *Note) error {
	fs.bs.Lock()
	defer fs.bs.Unlock()

	all, err := fs.load()
	if err != nil {
		return err
	}
	all = append(all, n)
	return fs.bs.Save(all)
}

// Get returns the note with the given ID.
func (fs *FileStore) Get(_ context.Context, id string) (*Note, error) {
	fs.bs.RLock()
	defer fs.bs.RUnlock()

	all, err := fs.load()
	if err != nil {
		return nil, err
	}
	for _, n := range all {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListByUser returns all notes owned by userID.
func (fs *FileStore) ListByUser(_ context.Context, userID string) ([]*Note, error) {
	fs.bs.RLock()
	defer fs.bs.RUnlock()

	all, err := fs.load()
	if err != nil {
		return nil, err
	}
	var owned []*Note
	for _, n := range all {
		if n.UserID == userID {
			owned = append(owned, n)
		}
	}
	return owned, nil
}

// Update rewrites an existing note in place.
func (fs *FileStore) Update(_ context.Context, n *Note) error {
	fs.bs.Lock()
	defer fs.bs.Unlock()

	all, err := fs.load()
	if err != nil {
		return err
	}
	for i, existing := range all {
		if existing.ID == n.ID {
			all[i] = n
			return fs.bs.Save(all)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, n.ID)
}

// Delete removes a note from the collection. Unknown IDs are a no-op.
func (fs *FileStore) Delete(_ context.Context, id string) error {
	fs.bs.Lock()
	defer fs.bs.Unlock()

	all, err := fs.load()
	if err != nil {
		return err
	}
	kept := all[:0]
	for _, n := range all {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	return fs.bs.Save(kept)
}

// Close is a no-op for the file backend.
func (fs *FileStore) Close() error { return nil }

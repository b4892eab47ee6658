package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/nikhil181511/smartplan/internal/storage/blobstore"
)

// FileStore persists the whole task collection as a single JSON file,
// mirroring a key-value blob store.
type FileStore struct {
	bs *blobstore.BlobStore
}

// NewFileStore creates a FileStore writing to dir/tasks.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{bs: blobstore.New(filepath.Join(dir, "tasks.json"), "task")}
}

func (fs *FileStore) load() ([]*Task, error) {
	var all []*Task
	if err := fs.bs.Load(&all); err != nil {
		return nil, err
	}
	return all, nil
}

// Create appends a task to the collection.
func (fs *FileStore) Create(_ context.Context, t *Task) error {
	fs.bs.Lock()
	defer fs.bs.Unlock()

	all, err := fs.load()
	if err != nil {
		return err
	}
	all = append(all, t)
	return fs.bs.Save(all)
}

// Get returns the task with the given ID.
func (fs *FileStore) Get(_ context.Context, id string) (*Task, error) {
	fs.bs.RLock()
	defer fs.bs.RUnlock()

	all, err := fs.load()
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListByUser returns all tasks owned by userID.
func (fs *FileStore) ListByUser(_ context.Context, userID string) ([]*Task, error) {
	fs.bs.RLock()
	defer fs.bs.RUnlock()

	all, err := fs.load()
	if err != nil {
		return nil, err
	}
	var owned []*Task
	for _, t := range all {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}
	return owned, nil
}

// Update rewrites an existing task in place.
func (fs *FileStore) Update(_ context.Context, t *Task) error {
	fs.bs.Lock()
	defer fs.bs.Unlock()

	all, err := fs.load()
	if err != nil {
		return err
	}
	for i, existing := range all {
		if existing.ID == t.ID {
			all[i] = t
			return fs.bs.Save(all)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, t.ID)
}

// Delete removes a task from the collection. Unknown IDs are a no-op.
func (fs *FileStore) Delete(_ context.Context, id string) error {
	fs.bs.Lock()
	defer fs.bs.Unlock()

	all, err := fs.load()
	if err != nil {
		return err
	}
	kept := all[:0]
	for _, t := range all {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	return fs.bs.Save(kept)
}

// ListUsers returns the distinct user IDs present in the collection.
func (fs *FileStore) ListUsers(_ context.Context) ([]string, error) {
	fs.bs.RLock()
	defer fs.bs.RUnlock()

	all, err := fs.load()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var users []string
	for _, t := range all {
		if _, ok := seen[t.UserID]; !ok {
			seen[t.UserID] = struct{}{}
			users = append(users, t.UserID)
		}
	}
	sort.Strings(users)
	return users, nil
}

// Close is a no-op for the file backend.
func (fs *FileStore) Close() error { return nil }

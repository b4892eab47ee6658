package tasks

import "context"

// Store defines the persistence interface for tasks. Two backends implement
// it: FileStore (JSON collection blob) and SQLStore (SQLite). The repository's
// business rules do not vary by choice.
type Store interface {
	Create(ctx context.Context, t *Task) error
	// Get returns the task or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (*Task, error)
	// ListByUser returns all tasks owned by userID, in no particular order.
	ListByUser(ctx context.Context, userID string) ([]*Task, error)
	// Update rewrites an existing task; returns ErrNotFound for unknown IDs.
	Update(ctx context.Context, t *Task) error
	// Delete removes a task. Deleting a non-existent ID is not an error.
	Delete(ctx context.Context, id string) error
	// ListUsers returns the distinct user IDs present in the store.
	ListUsers(ctx context.Context) ([]string, error)
	Close() error
}

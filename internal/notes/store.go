package notes

import "context"

// Store defines the persistence interface for notes.
type Store interface {
	Create(ctx context.Context, n *Note) error
	// Get returns the note or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (*Note, error)
	// ListByUser returns all notes owned by userID, in no particular order.
	ListByUser(ctx context.Context, userID string) ([]*Note, error)
	// Update rewrites an existing note; returns ErrNotFound for unknown IDs.
	Update(ctx context.Context, n *Note) error
	// Delete removes a note. Deleting a non-existent ID is not an error.
	Delete(ctx context.Context, id string) error
	Close() error
}

package notes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nikhil181511/smartplan/internal/events"
)

// Repository implements the per-user note operations on top of a Store.
// Unlike tasks, notes have no retention policy and no reminder coupling.
type Repository struct {
	store Store
	bus   *events.Bus
	now   func() time.Time
}

// NewRepository creates a Repository. The bus may be nil.
func NewRepository(store Store, bus *events.Bus) *Repository {
	return &Repository{
		store: store,
		bus:   bus,
		now:   time.Now,
	}
}

func (r *Repository) publish(payload events.EventPayload) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(events.NewTypedEvent(events.SourceRepository, payload))
}

// Create validates and persists a new note, returning its identifier.
func (r *Repository) Create(ctx context.Context, userID, content string) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}

	now := r.now()
	n := &Note{
		ID:        GenerateNoteID(),
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.store.Create(ctx, n); err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}

	r.publish(events.NoteCreatedPayload{NoteID: n.ID, UserID: n.UserID})
	return n.ID, nil
}

// List returns the user's notes ordered by update time, newest first.
func (r *Repository) List(ctx context.Context, userID string) ([]*Note, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	list, err := r.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list, nil
}

// Update replaces a note's content and refreshes its update time.
func (r *Repository) Update(ctx context.Context, noteID, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}

	n, err := r.store.Get(ctx, noteID)
	if err != nil {
		return err
	}

	n.Content = content
	n.UpdatedAt = r.now()
	if err := r.store.Update(ctx, n); err != nil {
		return fmt.Errorf("update note: %w", err)
	}

	r.publish(events.NoteUpdatedPayload{NoteID: n.ID, UserID: n.UserID})
	return nil
}

// Delete removes a note. Deleting a non-existent ID is not an error.
func (r *Repository) Delete(ctx context.Context, noteID string) error {
	if err := r.store.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	r.publish(events.NoteDeletedPayload{NoteID: noteID})
	return nil
}

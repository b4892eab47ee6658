// Package notes provides per-user freeform note persistence.
package notes

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note represents a user-owned freeform text entry.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	// ErrNotFound is returned when no note with the given ID exists.
	ErrNotFound = errors.New("note not found")

	ErrEmptyContent = errors.New("note content is required")
	ErrEmptyUserID  = errors.New("user id is required")
)

// GenerateNoteID creates a unique note identifier.
func GenerateNoteID() string {
	u := uuid.New().String()
	return "note_" + strings.ReplaceAll(u[:8], "-", "")
}

package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const noteSchema = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id);
`

// SQLStore persists notes in a SQLite table.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates the notes table if needed and returns the store.
func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	if _, err := db.Exec(noteSchema); err != nil {
		return nil, fmt.Errorf("migrate notes schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Create inserts a new note row.
func (s *SQLStore) Create(ctx context.Context, n *Note) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Content, formatTime(n.CreatedAt), formatTime(n.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// Get returns the note with the given ID.
func (s *SQLStore) Get(ctx context.Context, id string) (*Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, content, created_at, updated_at FROM notes WHERE id = ?`, id)

	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("select note: %w", err)
	}
	return n, nil
}

// ListByUser returns all notes owned by userID.
func (s *SQLStore) ListByUser(ctx context.Context, userID string) ([]*Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, content, created_at, updated_at FROM notes WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("select notes: %w", err)
	}
	defer rows.Close()

	var list []*Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// Update rewrites an existing note row.
func (s *SQLStore) Update(ctx context.Context, n *Note) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET content = ?, updated_at = ? WHERE id = ?`,
		n.Content, formatTime(n.UpdatedAt), n.ID)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, n.ID)
	}
	return nil
}

// Delete removes a note row. Unknown IDs are a no-op.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// Close is a no-op; the shared database handle is closed by its owner.
func (s *SQLStore) Close() error { return nil }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*Note, error) {
	var n Note
	var createdAt, updatedAt string
	if err := row.Scan(&n.ID, &n.UserID, &n.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

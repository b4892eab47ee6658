package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const taskSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	title          TEXT NOT NULL,
	priority       TEXT NOT NULL,
	estimated_time TEXT NOT NULL,
	scheduled_for  TEXT NOT NULL,
	completed      INTEGER NOT NULL DEFAULT 0,
	notes          TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
`

// SQLStore persists tasks in a SQLite table, one row per record.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates the tasks table if needed and returns the store. The
// database handle is shared with other stores; Close is a no-op.
func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	if _, err := db.Exec(taskSchema); err != nil {
		return nil, fmt.Errorf("migrate tasks schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Create inserts a new task row.
func (s *SQLStore) Create(ctx context.Context, t *Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, priority, estimated_time, scheduled_for, completed, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Title, string(t.Priority), t.EstimatedTime,
		formatTime(t.ScheduledFor), boolToInt(t.Completed), t.Notes, formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Get returns the task with the given ID.
func (s *SQLStore) Get(ctx context.Context, id string) (*Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, priority, estimated_time, scheduled_for, completed, notes, created_at
		 FROM tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("select task: %w", err)
	}
	return t, nil
}

// ListByUser returns all tasks owned by userID.
func (s *SQLStore) ListByUser(ctx context.Context, userID string) ([]*Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, priority, estimated_time, scheduled_for, completed, notes, created_at
		 FROM tasks WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	var list []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update rewrites an existing task row.
func (s *SQLStore) Update(ctx context.Context, t *Task) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET user_id = ?, title = ?, priority = ?, estimated_time = ?,
		 scheduled_for = ?, completed = ?, notes = ? WHERE id = ?`,
		t.UserID, t.Title, string(t.Priority), t.EstimatedTime,
		formatTime(t.ScheduledFor), boolToInt(t.Completed), t.Notes, t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, t.ID)
	}
	return nil
}

// Delete removes a task row. Unknown IDs are a no-op.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ListUsers returns the distinct user IDs present in the table.
func (s *SQLStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM tasks ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Close is a no-op; the shared database handle is closed by its owner.
func (s *SQLStore) Close() error { return nil }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var priority, scheduledFor, createdAt string
	var completed int

	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &priority, &t.EstimatedTime,
		&scheduledFor, &completed, &t.Notes, &createdAt); err != nil {
		return nil, err
	}

	t.Priority = Priority(priority)
	t.Completed = completed != 0

	var err error
	if t.ScheduledFor, err = parseTime(scheduledFor); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

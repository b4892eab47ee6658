package tasks

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestTask(userID, title string, scheduledFor time.Time) *Task {
	return &Task{
		ID:            GenerateTaskID(),
		UserID:        userID,
		Title:         title,
		Priority:      PriorityMedium,
		EstimatedTime: "1 hour",
		ScheduledFor:  scheduledFor,
		CreatedAt:     time.Now(),
	}
}

func TestFileStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	task := newTestTask("u1", "Write report", time.Now().Add(time.Hour))
	if err := store.Create(ctx, task); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Write report" || got.Priority != PriorityMedium {
		t.Errorf("got %+v", got)
	}

	got.Completed = true
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got2, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if !got2.Completed {
		t.Error("Completed not persisted")
	}

	if err := store.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v, want ErrNotFound", err)
	}
}

func TestFileStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	task := newTestTask("u1", "a", time.Now())
	if err := store.Create(ctx, task); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, task.ID); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := store.Delete(ctx, task.ID); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}
}

func TestFileStoreListByUserIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	for _, tc := range []struct{ user, title string }{
		{"u1", "a"}, {"u2", "b"}, {"u1", "c"},
	} {
		if err := store.Create(ctx, newTestTask(tc.user, tc.title, time.Now())); err != nil {
			t.Fatalf("Create %s: %v", tc.title, err)
		}
	}

	u1, err := store.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(u1) != 2 {
		t.Fatalf("u1 tasks = %d, want 2", len(u1))
	}
	for _, task := range u1 {
		if task.UserID != "u1" {
			t.Errorf("cross-user leak: %+v", task)
		}
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[0] != "u1" || users[1] != "u2" {
		t.Errorf("users = %v", users)
	}
}

func TestFileStoreUpdateUnknownID(t *testing.T) {
	store := NewFileStore(t.TempDir())
	err := store.Update(context.Background(), newTestTask("u1", "x", time.Now()))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update unknown: %v, want ErrNotFound", err)
	}
}

package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikhil181511/smartplan/internal/storage/sqlitedb"
)

func newSQLTestStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLStore(db)
	if err != nil {
		t.Fatalf("NewSQLStore: %v", err)
	}
	return store
}

func TestSQLStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := newSQLTestStore(t)

	scheduled := time.Date(2026, 9, 1, 14, 30, 0, 0, time.Local)
	task := newTestTask("u1", "Prepare slides", scheduled)
	task.Notes = "deck v2"
	if err := store.Create(ctx, task); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Prepare slides" || got.Notes != "deck v2" {
		t.Errorf("got %+v", got)
	}
	if !got.ScheduledFor.Equal(scheduled) {
		t.Errorf("ScheduledFor = %v, want %v", got.ScheduledFor, scheduled)
	}

	got.Completed = true
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got2, _ := store.Get(ctx, task.ID)
	if !got2.Completed {
		t.Error("Completed not persisted")
	}

	if err := store.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v, want ErrNotFound", err)
	}
	// Idempotent delete.
	if err := store.Delete(ctx, task.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestSQLStoreUserScoping(t *testing.T) {
	ctx := context.Background()
	store := newSQLTestStore(t)

	for _, user := range []string{"u1", "u2", "u1"} {
		if err := store.Create(ctx, newTestTask(user, "t", time.Now())); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	u2, err := store.ListByUser(ctx, "u2")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(u2) != 1 {
		t.Errorf("u2 tasks = %d, want 1", len(u2))
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("users = %v", users)
	}
}

func TestSQLStoreUpdateUnknownID(t *testing.T) {
	store := newSQLTestStore(t)
	err := store.Update(context.Background(), newTestTask("u1", "x", time.Now()))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update unknown: %v, want ErrNotFound", err)
	}
}

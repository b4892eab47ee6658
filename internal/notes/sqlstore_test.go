package notes

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

func TestNoteSQLStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := newSQLTestStore(t)

	now := time.Now()
	n := &Note{ID: GenerateNoteID(), UserID: "u1", Content: "hello", CreatedAt: now, UpdatedAt: now}
	if err := store.Create(ctx, n); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, n.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Content != "hello" || got.UserID != "u1" {
		t.Errorf("got %+v", got)
	}

	got.Content = "edited"
	got.UpdatedAt = now.Add(time.Minute)
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got2, _ := store.Get(ctx, n.ID)
	if got2.Content != "edited" {
		t.Errorf("Content = %q", got2.Content)
	}

	if err := store.Delete(ctx, n.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
	if err := store.Delete(ctx, n.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestNoteSQLStoreUserScoping(t *testing.T) {
	ctx := context.Background()
	store := newSQLTestStore(t)

	now := time.Now()
	for _, user := range []string{"u1", "u2", "u1"} {
		n := &Note{ID: GenerateNoteID(), UserID: user, Content: "c", CreatedAt: now, UpdatedAt: now}
		if err := store.Create(ctx, n); err != nil {
			t.Fatal(err)
		}
	}

	u1, err := store.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(u1) != 2 {
		t.Errorf("u1 notes = %d, want 2", len(u1))
	}
}

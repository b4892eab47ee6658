package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikhil181511/smartplan/internal/events"
)

// Sweep deletes the user's tasks that are both completed and scheduled
// strictly before the start of the current calendar day (local midnight).
// Incomplete tasks are retained regardless of how far in the past they are
// scheduled; a completed task scheduled exactly at midnight today survives
// the strict less-than comparison. Returns the IDs of the deleted tasks.
func (r *Repository) Sweep(ctx context.Context, userID string) ([]string, error) {
	startOfToday := startOfDay(r.now())

	list, err := r.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sweep list: %w", err)
	}

	var deleted []string
	for _, t := range list {
		if !t.Completed || !t.ScheduledFor.Before(startOfToday) {
			continue
		}
		if err := r.store.Delete(ctx, t.ID); err != nil {
			// Best-effort: keep going, the remaining records are still swept.
			slog.Warn("sweep delete failed", "task_id", t.ID, "error", err)
			continue
		}
		deleted = append(deleted, t.ID)
	}

	if len(deleted) > 0 {
		slog.Info("swept old completed tasks", "user_id", userID, "count", len(deleted))
		r.publish(events.TaskSweptPayload{UserID: userID, TaskIDs: deleted})
	}
	return deleted, nil
}

// SweepAll runs the retention sweep for every user present in the store.
func (r *Repository) SweepAll(ctx context.Context) error {
	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("sweep users: %w", err)
	}
	for _, u := range users {
		if _, err := r.Sweep(ctx, u); err != nil {
			slog.Warn("sweep failed", "user_id", u, "error", err)
		}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

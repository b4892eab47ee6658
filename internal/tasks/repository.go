package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/nikhil181511/smartplan/internal/events"
)

// Repository implements the per-user task operations on top of a Store and
// publishes lifecycle events to the bus. Reminder scheduling subscribes to
// those events rather than being called inline, so the repository has no
// notification dependency.
type Repository struct {
	store Store
	bus   *events.Bus
	now   func() time.Time
}

// NewRepository creates a Repository. The bus may be nil, in which case no
// lifecycle events are published.
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

// Create validates and persists a new task, returning its identifier.
// A reminder is scheduled (via the task.created event) unless the task is
// already completed at creation.
func (r *Repository) Create(ctx context.Context, userID string, draft Draft) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}
	if err := draft.Validate(); err != nil {
		return "", err
	}

	t := &Task{
		ID:            GenerateTaskID(),
		UserID:        userID,
		Title:         draft.Title,
		Priority:      draft.Priority,
		EstimatedTime: draft.EstimatedTime,
		ScheduledFor:  draft.ScheduledFor,
		Completed:     draft.Completed,
		Notes:         draft.Notes,
		CreatedAt:     r.now(),
	}

	if err := r.store.Create(ctx, t); err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}

	r.publish(events.TaskCreatedPayload{
		TaskID:       t.ID,
		UserID:       t.UserID,
		Title:        t.Title,
		ScheduledFor: t.ScheduledFor,
		Completed:    t.Completed,
	})

	return t.ID, nil
}

// CreateBatch applies Create semantics to each draft. It is deliberately
// best-effort, not transactional: a failing element does not roll back
// earlier successful creates. The IDs that did persist are returned alongside
// the joined errors.
func (r *Repository) CreateBatch(ctx context.Context, userID string, drafts []Draft) ([]string, error) {
	var ids []string
	var errs []error
	for i, draft := range drafts {
		id, err := r.Create(ctx, userID, draft)
		if err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w", i, err))
			continue
		}
		ids = append(ids, id)
	}
	return ids, errors.Join(errs...)
}

// List runs the retention sweep for the user, then returns the remaining
// tasks ordered ascending by scheduled time. The sweep is best-effort: its
// failure is logged and never prevents the read from returning data.
func (r *Repository) List(ctx context.Context, userID string) ([]*Task, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	if _, err := r.Sweep(ctx, userID); err != nil {
		slog.Warn("task retention sweep failed", "user_id", userID, "error", err)
	}

	list, err := r.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].ScheduledFor.Before(list[j].ScheduledFor)
	})
	return list, nil
}

// ToggleCompletion sets the completed flag. Completing a task cancels its
// pending reminder; un-completing re-derives one from the existing scheduled
// time (both via the task.toggled event).
func (r *Repository) ToggleCompletion(ctx context.Context, taskID string, completed bool) error {
	t, err := r.store.Get(ctx, taskID)
	if err != nil {
		return err
	}

	t.Completed = completed
	if err := r.store.Update(ctx, t); err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}

	r.publish(events.TaskToggledPayload{
		TaskID:       t.ID,
		UserID:       t.UserID,
		Title:        t.Title,
		ScheduledFor: t.ScheduledFor,
		Completed:    t.Completed,
	})
	return nil
}

// Update merges the patch into the existing record. When the patch touches
// the title or the scheduled time and the record is not completed, the
// reminder is re-scheduled via the task.rescheduled event.
func (r *Repository) Update(ctx context.Context, taskID string, patch Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	t, err := r.store.Get(ctx, taskID)
	if err != nil {
		return err
	}

	reschedule := false
	if patch.Title != nil {
		t.Title = *patch.Title
		reschedule = true
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.EstimatedTime != nil {
		t.EstimatedTime = *patch.EstimatedTime
	}
	if patch.ScheduledFor != nil {
		t.ScheduledFor = *patch.ScheduledFor
		reschedule = true
	}
	if patch.Notes != nil {
		t.Notes = *patch.Notes
	}

	if err := r.store.Update(ctx, t); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if reschedule && !t.Completed {
		r.publish(events.TaskRescheduledPayload{
			TaskID:       t.ID,
			UserID:       t.UserID,
			Title:        t.Title,
			ScheduledFor: t.ScheduledFor,
		})
	}
	return nil
}

// Delete cancels any pending reminder (via the task.deleted event) and
// removes the record. Deleting a non-existent ID is not an error.
func (r *Repository) Delete(ctx context.Context, taskID string) error {
	if err := r.store.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	r.publish(events.TaskDeletedPayload{TaskID: taskID})
	return nil
}

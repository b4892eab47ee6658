package reminders

import (
	"context"
	"log/slog"
	"time"
)

// Notifier delivers a reminder to the user. Implementations must be safe for
// concurrent use; errors are logged by the scheduler, never propagated.
type Notifier interface {
	Notify(ctx context.Context, taskID, title string, scheduledFor time.Time) error
}

// LogNotifier writes reminders to the structured log. It stands in for a
// platform notification service in server and CLI modes.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, taskID, title string, scheduledFor time.Time) error {
	slog.Info("task starting soon",
		"task_id", taskID,
		"title", title,
		"scheduled_for", scheduledFor.Format(time.RFC3339))
	return nil
}

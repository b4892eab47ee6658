// Package reminders turns task scheduled times into fire-and-forget
// notifications a fixed lead before they start.
package reminders

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nikhil181511/smartplan/internal/events"
)

// DefaultLead is how long before a task's scheduled time the reminder fires.
const DefaultLead = 5 * time.Minute

// Config holds dependencies for the scheduler.
type Config struct {
	Bus      *events.Bus
	Notifier Notifier
	Lead     time.Duration // zero means DefaultLead
}

// Scheduler keeps a task-id → pending-timer table and reacts to repository
// lifecycle events: creations and un-completions schedule a reminder,
// completions, deletions, and sweeps cancel it, reschedules re-derive it.
// Every operation is best-effort and never blocks or fails the mutation that
// triggered it.
type Scheduler struct {
	bus      *events.Bus
	notifier Notifier
	lead     time.Duration
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]*time.Timer

	unsubscribe func()
}

// New creates a Scheduler.
func New(cfg Config) *Scheduler {
	lead := cfg.Lead
	if lead == 0 {
		lead = DefaultLead
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Scheduler{
		bus:      cfg.Bus,
		notifier: notifier,
		lead:     lead,
		now:      time.Now,
		pending:  make(map[string]*time.Timer),
	}
}

// Start subscribes to task lifecycle events.
func (s *Scheduler) Start() {
	s.unsubscribe = s.bus.Subscribe(s.handleEvent,
		events.EventTaskCreated,
		events.EventTaskToggled,
		events.EventTaskRescheduled,
		events.EventTaskDeleted,
		events.EventTaskSwept,
	)
	slog.Info("reminder scheduler started", "lead", s.lead)
}

// Stop unsubscribes and cancels all pending reminders.
func (s *Scheduler) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.CancelAll()
	slog.Info("reminder scheduler stopped")
}

func (s *Scheduler) handleEvent(e events.Event) {
	switch e.Type {
	case events.EventTaskCreated:
		p, ok := events.GetTaskCreatedPayload(e)
		if !ok {
			return
		}
		if !p.Completed {
			s.Schedule(p.TaskID, p.Title, p.ScheduledFor)
		}
	case events.EventTaskToggled:
		p, ok := events.GetTaskToggledPayload(e)
		if !ok {
			return
		}
		if p.Completed {
			s.Cancel(p.TaskID)
		} else {
			s.Schedule(p.TaskID, p.Title, p.ScheduledFor)
		}
	case events.EventTaskRescheduled:
		p, ok := events.GetTaskRescheduledPayload(e)
		if !ok {
			return
		}
		s.Schedule(p.TaskID, p.Title, p.ScheduledFor)
	case events.EventTaskDeleted:
		p, ok := events.GetTaskDeletedPayload(e)
		if !ok {
			return
		}
		s.Cancel(p.TaskID)
	case events.EventTaskSwept:
		p, ok := events.GetTaskSweptPayload(e)
		if !ok {
			return
		}
		for _, id := range p.TaskIDs {
			s.Cancel(id)
		}
	}
}

// Schedule arms (or re-arms) the reminder for a task. Reminders whose fire
// time has already passed are skipped.
func (s *Scheduler) Schedule(taskID, title string, scheduledFor time.Time) {
	s.Cancel(taskID)

	fireAt := scheduledFor.Add(-s.lead)
	delay := fireAt.Sub(s.now())
	if delay <= 0 {
		slog.Debug("skipping reminder, fire time has passed",
			"task_id", taskID, "title", title, "fire_at", fireAt)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[taskID] = time.AfterFunc(delay, func() {
		s.fire(taskID, title, scheduledFor)
	})
	slog.Debug("reminder scheduled", "task_id", taskID, "fire_at", fireAt)
}

func (s *Scheduler) fire(taskID, title string, scheduledFor time.Time) {
	s.mu.Lock()
	delete(s.pending, taskID)
	s.mu.Unlock()

	if err := s.notifier.Notify(context.Background(), taskID, title, scheduledFor); err != nil {
		slog.Error("reminder notify failed", "task_id", taskID, "error", err)
		return
	}

	if s.bus != nil {
		s.bus.Publish(events.NewTypedEvent(events.SourceReminders, events.ReminderFiredPayload{
			TaskID:       taskID,
			Title:        title,
			ScheduledFor: scheduledFor,
		}))
	}
}

// Cancel disarms the pending reminder for a task, if any.
func (s *Scheduler) Cancel(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.pending[taskID]; ok {
		timer.Stop()
		delete(s.pending, taskID)
		slog.Debug("reminder cancelled", "task_id", taskID)
	}
}

// CancelAll disarms every pending reminder.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.pending {
		timer.Stop()
		delete(s.pending, id)
	}
}

// Pending returns the number of armed reminders.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

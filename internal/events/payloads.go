package events

import (
	"encoding/json"
	"time"
)

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

// =============================================================================
// TASK EVENTS
// =============================================================================

type TaskCreatedPayload struct {
	TaskID       string    `json:"task_id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Completed    bool      `json:"completed"`
}

func (TaskCreatedPayload) EventType() EventType { return EventTaskCreated }

type TaskToggledPayload struct {
	TaskID       string    `json:"task_id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Completed    bool      `json:"completed"`
}

func (TaskToggledPayload) EventType() EventType { return EventTaskToggled }

type TaskRescheduledPayload struct {
	TaskID       string    `json:"task_id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

func (TaskRescheduledPayload) EventType() EventType { return EventTaskRescheduled }

type TaskDeletedPayload struct {
	TaskID string `json:"task_id"`
	UserID string `json:"user_id,omitempty"`
}

func (TaskDeletedPayload) EventType() EventType { return EventTaskDeleted }

type TaskSweptPayload struct {
	UserID  string   `json:"user_id"`
	TaskIDs []string `json:"task_ids"`
}

func (TaskSweptPayload) EventType() EventType { return EventTaskSwept }

// =============================================================================
// NOTE EVENTS
// =============================================================================

type NoteCreatedPayload struct {
	NoteID string `json:"note_id"`
	UserID string `json:"user_id"`
}

func (NoteCreatedPayload) EventType() EventType { return EventNoteCreated }

type NoteUpdatedPayload struct {
	NoteID string `json:"note_id"`
	UserID string `json:"user_id,omitempty"`
}

func (NoteUpdatedPayload) EventType() EventType { return EventNoteUpdated }

type NoteDeletedPayload struct {
	NoteID string `json:"note_id"`
}

func (NoteDeletedPayload) EventType() EventType { return EventNoteDeleted }

// =============================================================================
// PLANNER EVENTS
// =============================================================================

type PlanGeneratedPayload struct {
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	TaskCount int    `json:"task_count"`
	Conflicts int    `json:"conflicts"`
}

func (PlanGeneratedPayload) EventType() EventType { return EventPlanGenerated }

// =============================================================================
// REMINDER EVENTS
// =============================================================================

type ReminderFiredPayload struct {
	TaskID       string    `json:"task_id"`
	Title        string    `json:"title"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

func (ReminderFiredPayload) EventType() EventType { return EventReminderFired }

// =============================================================================
// TYPED EVENT CONSTRUCTOR AND EXTRACTORS
// =============================================================================

// NewTypedEvent wraps a typed payload into an Event.
func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return Event{
		ID:        generateEventID(),
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func toMap(v any) map[string]any {
	var result map[string]any
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}

// ExtractPayload decodes an event's payload map back into a typed payload.
func ExtractPayload[T EventPayload](e Event) (T, bool) {
	var result T
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

func GetTaskCreatedPayload(e Event) (TaskCreatedPayload, bool) {
	return ExtractPayload[TaskCreatedPayload](e)
}

func GetTaskToggledPayload(e Event) (TaskToggledPayload, bool) {
	return ExtractPayload[TaskToggledPayload](e)
}

func GetTaskRescheduledPayload(e Event) (TaskRescheduledPayload, bool) {
	return ExtractPayload[TaskRescheduledPayload](e)
}

func GetTaskDeletedPayload(e Event) (TaskDeletedPayload, bool) {
	return ExtractPayload[TaskDeletedPayload](e)
}

func GetTaskSweptPayload(e Event) (TaskSweptPayload, bool) {
	return ExtractPayload[TaskSweptPayload](e)
}

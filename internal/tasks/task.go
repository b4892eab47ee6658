// Package tasks provides per-user task persistence with retention and
// reminder lifecycle hooks.
package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority represents the urgency of a task. The storage layer has no
// implicit default; callers must supply one.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Task represents a user-owned schedulable unit of work.
type Task struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Priority      Priority  `json:"priority"`
	EstimatedTime string    `json:"estimated_time"`
	ScheduledFor  time.Time `json:"scheduled_for"`
	Completed     bool      `json:"completed"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Draft holds the caller-supplied fields for a new task.
type Draft struct {
	Title         string    `json:"title"`
	Priority      Priority  `json:"priority"`
	EstimatedTime string    `json:"estimated_time"`
	ScheduledFor  time.Time `json:"scheduled_for"`
	Completed     bool      `json:"completed"`
	Notes         string    `json:"notes,omitempty"`
}

// Patch holds a partial update; nil fields are left unchanged.
type Patch struct {
	Title         *string    `json:"title,omitempty"`
	Priority      *Priority  `json:"priority,omitempty"`
	EstimatedTime *string    `json:"estimated_time,omitempty"`
	ScheduledFor  *time.Time `json:"scheduled_for,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

var (
	// ErrNotFound is returned when no task with the given ID exists.
	ErrNotFound = errors.New("task not found")

	ErrEmptyTitle      = errors.New("task title is required")
	ErrEmptyEstimate   = errors.New("task estimated time is required")
	ErrInvalidPriority = errors.New("task priority must be High, Medium, or Low")
	ErrEmptyUserID     = errors.New("user id is required")
)

// Validate checks the draft before any store access.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(d.EstimatedTime) == "" {
		return ErrEmptyEstimate
	}
	if !d.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, d.Priority)
	}
	return nil
}

// Validate checks that the patched fields, when present, are well-formed.
func (p Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.EstimatedTime != nil && strings.TrimSpace(*p.EstimatedTime) == "" {
		return ErrEmptyEstimate
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
	}
	return nil
}

// GenerateTaskID creates a unique task identifier.
func GenerateTaskID() string {
	u := uuid.New().String()
	return "task_" + strings.ReplaceAll(u[:8], "-", "")
}

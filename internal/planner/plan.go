// Package planner turns unstructured user input into a structured task plan
// through a configured chat model, and converts accepted plans into task
// drafts.
package planner

import (
	"fmt"
	"time"

	"github.com/nikhil181511/smartplan/internal/tasks"
)

// Plan is the structured output of a planning request.
type Plan struct {
	Title     string     `json:"title"`
	Overview  string     `json:"overview"`
	Tasks     []PlanTask `json:"tasks"`
	Conflicts []string   `json:"conflicts,omitempty"`
}

// PlanTask is a single proposed task inside a plan. ScheduledFor is a
// date-only string in YYYY-MM-DD form.
type PlanTask struct {
	Task          string `json:"task"`
	Priority      string `json:"priority"`
	EstimatedTime string `json:"estimatedTime"`
	ScheduledFor  string `json:"scheduledFor"`
	Notes         string `json:"notes,omitempty"`
}

// ExistingTask is the projection of a stored task handed to the model so it
// can schedule around what is already booked.
type ExistingTask struct {
	Title         string
	ScheduledFor  string
	EstimatedTime string
	Priority      string
}

const planDateLayout = "2006-01-02"

// Drafts converts a plan's proposed tasks into repository drafts. Dates are
// interpreted in local time at midnight. A priority the model got wrong is
// coerced to Medium rather than rejecting the whole plan.
func (p *Plan) Drafts() ([]tasks.Draft, error) {
	drafts := make([]tasks.Draft, 0, len(p.Tasks))
	for i, pt := range p.Tasks {
		scheduled, err := time.ParseInLocation(planDateLayout, pt.ScheduledFor, time.Local)
		if err != nil {
			return nil, fmt.Errorf("plan task %d: bad date %q: %w", i, pt.ScheduledFor, err)
		}

		priority := tasks.Priority(pt.Priority)
		if !priority.Valid() {
			priority = tasks.PriorityMedium
		}

		drafts = append(drafts, tasks.Draft{
			Title:         pt.Task,
			Priority:      priority,
			EstimatedTime: pt.EstimatedTime,
			ScheduledFor:  scheduled,
			Notes:         pt.Notes,
		})
	}
	return drafts, nil
}

package planner

import (
	"errors"
	"testing"
)

const validPlanJSON = `{
  "title": "Exam week",
  "overview": "Spread revision over three days",
  "tasks": [
    {"task": "Revise chapter 1", "priority": "High", "estimatedTime": "2 hours", "scheduledFor": "2026-09-01"},
    {"task": "Practice paper", "priority": "Medium", "estimatedTime": "90 mins", "scheduledFor": "2026-09-02", "notes": "timed"}
  ],
  "conflicts": ["overlaps with dentist on 2026-09-02"]
}`

func TestParsePlanRawJSON(t *testing.T) {
	plan, err := ParsePlan(validPlanJSON)
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if plan.Title != "Exam week" {
		t.Errorf("Title = %q", plan.Title)
	}
	if len(plan.Tasks) != 2 {
		t.Fatalf("len(Tasks) = %d", len(plan.Tasks))
	}
	if plan.Tasks[1].Notes != "timed" {
		t.Errorf("Tasks[1].Notes = %q", plan.Tasks[1].Notes)
	}
	if len(plan.Conflicts) != 1 {
		t.Errorf("len(Conflicts) = %d", len(plan.Conflicts))
	}
}

func TestParsePlanFenced(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + validPlanJSON + "\n```",
		"```\n" + validPlanJSON + "\n```",
		"\n  ```json\n" + validPlanJSON + "\n```  \n",
	} {
		plan, err := ParsePlan(raw)
		if err != nil {
			t.Fatalf("ParsePlan(fenced): %v", err)
		}
		if plan.Title != "Exam week" {
			t.Errorf("Title = %q", plan.Title)
		}
	}
}

func TestParsePlanMalformed(t *testing.T) {
	_, err := ParsePlan("here is your plan: do the thing")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestParsePlanMissingFields(t *testing.T) {
	cases := map[string]string{
		"no title":    `{"overview": "x", "tasks": []}`,
		"no overview": `{"title": "x", "tasks": []}`,
		"no tasks":    `{"title": "x", "overview": "y"}`,
	}
	for name, raw := range cases {
		if _, err := ParsePlan(raw); !errors.Is(err, ErrInvalidStructure) {
			t.Errorf("%s: err = %v, want ErrInvalidStructure", name, err)
		}
	}
}

func TestParsePlanEmptyTaskListValid(t *testing.T) {
	plan, err := ParsePlan(`{"title": "x", "overview": "y", "tasks": []}`)
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if len(plan.Tasks) != 0 {
		t.Errorf("len(Tasks) = %d", len(plan.Tasks))
	}
}

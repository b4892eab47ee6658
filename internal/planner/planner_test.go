package planner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/nikhil181511/smartplan/internal/tasks"
)

type fakeModel struct {
	response string
	err      error
	lastMsgs []*schema.Message
}

func (f *fakeModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.lastMsgs = input
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.response}, nil
}

func (f *fakeModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (f *fakeModel) WithTools([]*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return f, nil
}

type fakeSource struct {
	model *fakeModel
}

func (s fakeSource) Get(context.Context, string) (model.ToolCallingChatModel, error) {
	return s.model, nil
}

func (s fakeSource) Default(context.Context) (model.ToolCallingChatModel, error) {
	return s.model, nil
}

func TestAnalyzeAndPlan(t *testing.T) {
	fm := &fakeModel{response: "```json\n" + validPlanJSON + "\n```"}
	p := New(fakeSource{fm}, nil)

	plan, err := p.AnalyzeAndPlan(context.Background(), "u1", "study for exams next week", nil, "")
	if err != nil {
		t.Fatalf("AnalyzeAndPlan: %v", err)
	}
	if plan.Title != "Exam week" {
		t.Errorf("Title = %q", plan.Title)
	}

	if len(fm.lastMsgs) != 1 || fm.lastMsgs[0].Role != schema.User {
		t.Fatalf("unexpected prompt messages: %+v", fm.lastMsgs)
	}
	if !strings.Contains(fm.lastMsgs[0].Content, "study for exams next week") {
		t.Error("prompt missing user input")
	}
}

func TestAnalyzeAndPlanIncludesExistingTasks(t *testing.T) {
	fm := &fakeModel{response: validPlanJSON}
	p := New(fakeSource{fm}, nil)

	existing := []ExistingTask{
		{Title: "Dentist", ScheduledFor: "2026-09-02", EstimatedTime: "1 hour", Priority: "High"},
	}
	if _, err := p.AnalyzeAndPlan(context.Background(), "u1", "plan my week", existing, ""); err != nil {
		t.Fatalf("AnalyzeAndPlan: %v", err)
	}

	prompt := fm.lastMsgs[0].Content
	if !strings.Contains(prompt, "EXISTING TASKS") || !strings.Contains(prompt, "Dentist") {
		t.Error("prompt missing existing tasks section")
	}
}

func TestAnalyzeAndPlanEmptyInput(t *testing.T) {
	p := New(fakeSource{&fakeModel{}}, nil)
	if _, err := p.AnalyzeAndPlan(context.Background(), "u1", "   ", nil, ""); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestAnalyzeAndPlanModelError(t *testing.T) {
	fm := &fakeModel{err: errors.New("dial tcp: connection refused")}
	p := New(fakeSource{fm}, nil)

	_, err := p.AnalyzeAndPlan(context.Background(), "u1", "plan", nil, "")
	if err == nil || !strings.Contains(err.Error(), "connection error") {
		t.Errorf("err = %v, want normalized connection error", err)
	}
}

func TestAnalyzeAndPlanBadStructure(t *testing.T) {
	fm := &fakeModel{response: `{"title": "x"}`}
	p := New(fakeSource{fm}, nil)

	_, err := p.AnalyzeAndPlan(context.Background(), "u1", "plan", nil, "")
	if !errors.Is(err, ErrInvalidStructure) {
		t.Errorf("err = %v, want ErrInvalidStructure", err)
	}
}

func TestDrafts(t *testing.T) {
	plan := &Plan{
		Title:    "p",
		Overview: "o",
		Tasks: []PlanTask{
			{Task: "Revise", Priority: "High", EstimatedTime: "2 hours", ScheduledFor: "2026-09-01"},
			{Task: "Rest", Priority: "whenever", EstimatedTime: "1 hour", ScheduledFor: "2026-09-03"},
		},
	}

	drafts, err := plan.Drafts()
	if err != nil {
		t.Fatalf("Drafts: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("len(drafts) = %d", len(drafts))
	}

	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	if !drafts[0].ScheduledFor.Equal(want) {
		t.Errorf("ScheduledFor = %v, want %v", drafts[0].ScheduledFor, want)
	}
	if drafts[1].Priority != tasks.PriorityMedium {
		t.Errorf("unrecognized priority coerced to %q, want Medium", drafts[1].Priority)
	}
}

func TestDraftsBadDate(t *testing.T) {
	plan := &Plan{Tasks: []PlanTask{{Task: "x", ScheduledFor: "next tuesday"}}}
	if _, err := plan.Drafts(); err == nil {
		t.Error("expected error for unparseable date")
	}
}

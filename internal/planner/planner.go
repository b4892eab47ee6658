package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/nikhil181511/smartplan/internal/events"
	"github.com/nikhil181511/smartplan/internal/models"
)

// ModelSource resolves named chat models. *models.Registry satisfies it.
type ModelSource interface {
	Get(ctx context.Context, name string) (model.ToolCallingChatModel, error)
	Default(ctx context.Context) (model.ToolCallingChatModel, error)
}

// Planner drives planning requests through a model source.
type Planner struct {
	models ModelSource
	bus    *events.Bus
	now    func() time.Time
}

// New creates a Planner. The bus may be nil.
func New(source ModelSource, bus *events.Bus) *Planner {
	return &Planner{
		models: source,
		bus:    bus,
		now:    time.Now,
	}
}

// AnalyzeAndPlan converts free-form input into a structured plan. The
// existing tasks are included in the prompt so the model schedules around
// them. An empty modelName uses the default provider.
func (p *Planner) AnalyzeAndPlan(ctx context.Context, userID, userInput string, existing []ExistingTask, modelName string) (*Plan, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidStructure)
	}

	chatModel, err := p.getModel(ctx, modelName)
	if err != nil {
		return nil, fmt.Errorf("planner: get model: %w", err)
	}

	msgs := []*schema.Message{
		{Role: schema.User, Content: p.buildPrompt(userInput, existing)},
	}

	result, err := chatModel.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("planner: generate: %w", models.NormalizeError(err))
	}

	plan, err := ParsePlan(result.Content)
	if err != nil {
		return nil, err
	}

	if p.bus != nil {
		p.bus.Publish(events.NewTypedEvent(events.SourcePlanner, events.PlanGeneratedPayload{
			UserID:    userID,
			Title:     plan.Title,
			TaskCount: len(plan.Tasks),
			Conflicts: len(plan.Conflicts),
		}))
	}

	return plan, nil
}

func (p *Planner) getModel(ctx context.Context, name string) (model.ToolCallingChatModel, error) {
	if name == "" {
		return p.models.Default(ctx)
	}
	return p.models.Get(ctx, name)
}

func (p *Planner) buildPrompt(userInput string, existing []ExistingTask) string {
	var sb strings.Builder

	sb.WriteString("You are a productivity AI assistant. Analyze the following unstructured text and convert it into a structured task plan.\n\n")
	sb.WriteString("User Input:\n")
	sb.WriteString(userInput)

	if len(existing) > 0 {
		sb.WriteString("\n\nEXISTING TASKS (avoid conflicts):\n")
		for _, t := range existing {
			fmt.Fprintf(&sb, "- %s: %q (%s, Priority: %s)\n", t.ScheduledFor, t.Title, t.EstimatedTime, t.Priority)
		}
	}

	sb.WriteString(`

IMPORTANT: Return ONLY valid JSON in this exact format (no markdown, no code blocks, no additional text):
{
  "title": "Plan title",
  "overview": "Short explanation of what needs to be done",
  "tasks": [
    {
      "task": "Task name/description",
      "priority": "High | Medium | Low",
      "estimatedTime": "e.g. 45 mins, 2 hours, 1 day",
      "scheduledFor": "YYYY-MM-DD",
      "notes": "Any additional context or notes"
    }
  ],
  "conflicts": ["List any scheduling conflicts with existing tasks here"]
}

Rules:
1. Break down the input into realistic, actionable tasks
2. Assign appropriate priority (High/Medium/Low)
3. Estimate realistic time for each task
4. Suggest a reasonable schedule starting from today (` + p.now().Format(planDateLayout) + `)
5. AVOID scheduling conflicts with existing tasks - choose different times/dates
6. If conflicts are unavoidable, list them in the "conflicts" array
7. Tasks should be specific and achievable
8. Return ONLY the JSON object, nothing else`)

	return sb.String()
}

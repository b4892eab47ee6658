package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedResponse means the model output was not parseable JSON.
	ErrMalformedResponse = errors.New("model returned invalid JSON")
	// ErrInvalidStructure means the JSON parsed but is missing required
	// plan fields.
	ErrInvalidStructure = errors.New("invalid plan structure")
)

// ParsePlan extracts a Plan from raw model output, tolerating markdown code
// fences around the JSON.
func ParsePlan(raw string) (*Plan, error) {
	cleaned := stripFences(raw)

	// Tasks starts nil so a response that omits the field entirely is
	// distinguishable from an empty plan.
	var plan Plan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if plan.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrInvalidStructure)
	}
	if plan.Overview == "" {
		return nil, fmt.Errorf("%w: missing overview", ErrInvalidStructure)
	}
	if plan.Tasks == nil {
		return nil, fmt.Errorf("%w: missing tasks", ErrInvalidStructure)
	}

	return &plan, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

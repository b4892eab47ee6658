package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/nikhil181511/smartplan/internal/events"
	"github.com/nikhil181511/smartplan/internal/notes"
	"github.com/nikhil181511/smartplan/internal/planner"
	"github.com/nikhil181511/smartplan/internal/tasks"
)

type fakeChatModel struct {
	response string
}

func (f *fakeChatModel) Generate(context.Context, []*schema.Message, ...einomodel.Option) (*schema.Message, error) {
	return &schema.Message{Role: schema.Assistant, Content: f.response}, nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (f *fakeChatModel) WithTools([]*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

type fakeModelSource struct {
	model einomodel.ToolCallingChatModel
}

func (s fakeModelSource) Get(context.Context, string) (einomodel.ToolCallingChatModel, error) {
	return s.model, nil
}

func (s fakeModelSource) Default(context.Context) (einomodel.ToolCallingChatModel, error) {
	return s.model, nil
}

func newTestServer(t *testing.T, p *planner.Planner) *Server {
	t.Helper()

	bus := events.NewBus(64)
	t.Cleanup(bus.Close)

	dir := t.TempDir()
	return NewServer(Config{
		Bus:     bus,
		Tasks:   tasks.NewRepository(tasks.NewFileStore(dir), bus),
		Notes:   notes.NewRepository(notes.NewFileStore(dir), bus),
		Planner: p,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.Handler()

	scheduled := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	body := `{"title":"Write report","priority":"High","estimated_time":"2 hours","scheduled_for":"` + scheduled + `"}`

	rec := doJSON(t, h, http.MethodPost, "/api/tasks", "u1", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	json.Unmarshal(rec.Body.Bytes(), &created)
	id := created["id"]
	if id == "" {
		t.Fatal("no id returned")
	}

	rec = doJSON(t, h, http.MethodGet, "/api/tasks", "u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []map[string]any
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 1 || list[0]["title"] != "Write report" {
		t.Fatalf("list = %v", list)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/tasks/"+id+"/toggle", "u1", `{"completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPatch, "/api/tasks/"+id, "u1", `{"title":"Write the report"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/tasks/"+id, "u1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	// Deleting again is a no-op.
	rec = doJSON(t, h, http.MethodDelete, "/api/tasks/"+id, "u1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("second delete status = %d", rec.Code)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/tasks", "u1", `{"priority":"High","estimated_time":"1 hour"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing title: status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/tasks", "", `{"title":"x","priority":"High","estimated_time":"1 hour"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing user: status = %d", rec.Code)
	}
}

func TestUpdateUnknownTask(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(t, s.Handler(), http.MethodPatch, "/api/tasks/task_missing", "u1", `{"title":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestNoteLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/notes", "u1", `{"content":"remember the milk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	json.Unmarshal(rec.Body.Bytes(), &created)
	id := created["id"]

	rec = doJSON(t, h, http.MethodPut, "/api/notes/"+id, "u1", `{"content":"remember the bread"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/notes", "u1", "")
	var list []map[string]any
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 1 || list[0]["content"] != "remember the bread" {
		t.Fatalf("list = %v", list)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/notes/"+id, "u1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestCreateNoteEmptyContent(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/notes", "u1", `{"content":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPlanWithoutPlanner(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/plan", "u1", `{"input":"plan my week"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestPlanAndApply(t *testing.T) {
	day := time.Now().Add(72 * time.Hour).Format("2006-01-02")
	planJSON := `{"title":"Week","overview":"do things","tasks":[{"task":"Tidy desk","priority":"Low","estimatedTime":"30 mins","scheduledFor":"` + day + `"}]}`

	p := planner.New(fakeModelSource{&fakeChatModel{response: "```json\n" + planJSON + "\n```"}}, nil)
	s := newTestServer(t, p)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/plan", "u1", `{"input":"help me tidy up"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("plan status = %d: %s", rec.Code, rec.Body.String())
	}
	var plan planner.Plan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.Title != "Week" || len(plan.Tasks) != 1 {
		t.Fatalf("plan = %+v", plan)
	}

	applyBody, _ := json.Marshal(map[string]any{"plan": plan})
	rec = doJSON(t, h, http.MethodPost, "/api/plan/apply", "u1", string(applyBody))
	if rec.Code != http.StatusCreated {
		t.Fatalf("apply status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/tasks", "u1", "")
	var list []map[string]any
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 1 || list[0]["title"] != "Tidy desk" {
		t.Fatalf("applied tasks = %v", list)
	}
}

func TestPlanEmptyInput(t *testing.T) {
	p := planner.New(fakeModelSource{&fakeChatModel{}}, nil)
	s := newTestServer(t, p)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/plan", "u1", `{"input":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEventsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.Handler()

	scheduled := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	doJSON(t, h, http.MethodPost, "/api/tasks", "u1",
		`{"title":"x","priority":"Low","estimated_time":"5 mins","scheduled_for":"`+scheduled+`"}`)

	// Dispatch is asynchronous.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec := doJSON(t, h, http.MethodGet, "/api/events", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var list []map[string]any
		json.Unmarshal(rec.Body.Bytes(), &list)
		if len(list) > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no events recorded")
}

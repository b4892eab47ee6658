// Package gateway exposes the task, note, and planning services over HTTP
// and WebSocket.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nikhil181511/smartplan/internal/events"
	"github.com/nikhil181511/smartplan/internal/gateway/ws"
	"github.com/nikhil181511/smartplan/internal/notes"
	"github.com/nikhil181511/smartplan/internal/planner"
	"github.com/nikhil181511/smartplan/internal/tasks"
)

// Config holds the gateway dependencies. Planner may be nil, in which case
// the planning endpoints answer 503.
type Config struct {
	Bus     *events.Bus
	Tasks   *tasks.Repository
	Notes   *notes.Repository
	Planner *planner.Planner
	Host    string
	Port    int
}

// Server is the SmartPlan gateway HTTP server.
type Server struct {
	httpServer *http.Server
	hub        *ws.Hub
	bus        *events.Bus
	tasks      *tasks.Repository
	notes      *notes.Repository
	planner    *planner.Planner
}

// NewServer creates a gateway server.
func NewServer(cfg Config) *Server {
	s := &Server{
		hub:     ws.NewHub(cfg.Bus),
		bus:     cfg.Bus,
		tasks:   cfg.Tasks,
		notes:   cfg.Notes,
		planner: cfg.Planner,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/ws", s.hub.ServeWS)
	r.Get("/api/events", s.handleEvents)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", s.handleListTasks)
		r.Post("/", s.handleCreateTask)
		r.Post("/batch", s.handleCreateTaskBatch)
		r.Post("/sweep", s.handleSweep)
		r.Patch("/{id}", s.handleUpdateTask)
		r.Post("/{id}/toggle", s.handleToggleTask)
		r.Delete("/{id}", s.handleDeleteTask)
	})

	r.Route("/api/notes", func(r chi.Router) {
		r.Get("/", s.handleListNotes)
		r.Post("/", s.handleCreateNote)
		r.Put("/{id}", s.handleUpdateNote)
		r.Delete("/{id}", s.handleDeleteNote)
	})

	r.Post("/api/plan", s.handlePlan)
	r.Post("/api/plan/apply", s.handlePlanApply)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: r,
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("gateway listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

// userID resolves the calling user from the X-User-ID header, falling back
// to the user_id query parameter.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return r.URL.Query().Get("user_id")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tasks.ErrNotFound), errors.Is(err, notes.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, tasks.ErrEmptyTitle),
		errors.Is(err, tasks.ErrEmptyEstimate),
		errors.Is(err, tasks.ErrInvalidPriority),
		errors.Is(err, tasks.ErrEmptyUserID),
		errors.Is(err, notes.ErrEmptyContent),
		errors.Is(err, notes.ErrEmptyUserID):
		status = http.StatusBadRequest
	case errors.Is(err, planner.ErrMalformedResponse),
		errors.Is(err, planner.ErrInvalidStructure):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}

	history := s.bus.History(limit)

	type eventJSON struct {
		ID        string             `json:"id"`
		Type      string             `json:"type"`
		Timestamp string             `json:"timestamp"`
		Source    events.EventSource `json:"source"`
		Payload   map[string]any     `json:"payload"`
	}

	result := make([]eventJSON, len(history))
	for i, e := range history {
		result[i] = eventJSON{
			ID:        e.ID,
			Type:      string(e.Type),
			Timestamp: e.Timestamp.Format(time.RFC3339Nano),
			Source:    e.Source,
			Payload:   e.Payload,
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.tasks.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var draft tasks.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	id, err := s.tasks.Create(r.Context(), userID(r), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleCreateTaskBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tasks []tasks.Draft `json:"tasks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	ids, err := s.tasks.CreateBatch(r.Context(), userID(r), body.Tasks)
	if err != nil {
		// Some drafts may have persisted anyway.
		writeJSON(w, http.StatusMultiStatus, map[string]any{
			"ids":   ids,
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ids": ids})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.tasks.Sweep(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if deleted == nil {
		deleted = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch tasks.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	if err := s.tasks.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	if err := s.tasks.ToggleCompletion(r.Context(), chi.URLParam(r, "id"), body.Completed); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	list, err := s.notes.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	id, err := s.notes.Create(r.Context(), userID(r), body.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	if err := s.notes.Update(r.Context(), chi.URLParam(r, "id"), body.Content); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if s.planner == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "planner not configured"})
		return
	}

	var body struct {
		Input string `json:"input"`
		Model string `json:"model,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if strings.TrimSpace(body.Input) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "input is required"})
		return
	}

	uid := userID(r)
	existing, err := s.existingTasks(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	plan, err := s.planner.AnalyzeAndPlan(r.Context(), uid, body.Input, existing, body.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handlePlanApply(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Plan planner.Plan `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	drafts, err := body.Plan.Drafts()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ids, err := s.tasks.CreateBatch(r.Context(), userID(r), drafts)
	if err != nil {
		writeJSON(w, http.StatusMultiStatus, map[string]any{
			"ids":   ids,
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ids": ids})
}

// existingTasks projects the user's current tasks into the planner's view,
// dates collapsed to YYYY-MM-DD.
func (s *Server) existingTasks(ctx context.Context, uid string) ([]planner.ExistingTask, error) {
	if uid == "" {
		return nil, nil
	}

	list, err := s.tasks.List(ctx, uid)
	if err != nil {
		return nil, err
	}

	existing := make([]planner.ExistingTask, 0, len(list))
	for _, t := range list {
		existing = append(existing, planner.ExistingTask{
			Title:         t.Title,
			ScheduledFor:  t.ScheduledFor.Format("2006-01-02"),
			EstimatedTime: t.EstimatedTime,
			Priority:      string(t.Priority),
		})
	}
	return existing, nil
}

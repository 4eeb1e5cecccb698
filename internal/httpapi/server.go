// Package httpapi exposes the training engine as a JSON API. The surface is
// deliberately thin: handlers translate between HTTP and engine calls and
// own nothing of the training semantics.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parley-labs/parley/internal/config"
	"github.com/parley-labs/parley/internal/logging"
	"github.com/parley-labs/parley/pkg/domain"
	"github.com/parley-labs/parley/pkg/engine"
	"github.com/parley-labs/parley/pkg/evaluate"
	"github.com/parley-labs/parley/pkg/ports"
)

// userCookie carries the anonymous user identity between requests.
const userCookie = "parley_uid"

// Server wires the engine and its collaborators to HTTP handlers.
type Server struct {
	engine  *engine.Engine
	catalog ports.Catalog
	store   ports.SessionStore
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler builds the chi router for the API.
func NewHandler(eng *engine.Engine, catalog ports.Catalog, store ports.SessionStore, opts ...Option) http.Handler {
	s := &Server{
		engine:  eng,
		catalog: catalog,
		store:   store,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/diagnostics", s.diagnostics)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/module", func(r chi.Router) {
		r.Get("/overview", s.overview)
		r.Post("/start", s.start)
		r.Get("/state", s.state)
		r.Post("/answer", s.answer)
		r.Post("/advance", s.advance)
		r.Post("/reset", s.reset)
	})
	r.Delete("/api/session", s.deleteSession)
	r.Get("/api/sessions", s.sessions)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) diagnostics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"checks": config.Diagnostics()})
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"topic":       s.catalog.Topic(),
		"mini_lesson": s.catalog.MiniLessonCard(),
		"rubric":      evaluate.Rubric(),
		"steps":       len(s.catalog.Steps()),
	})
}

func (s *Server) start(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(w, r)

	sess, err := s.engine.Start(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"current_step": sess.CurrentStep,
		"started_at":   sess.StartedAt,
	})
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(w, r)

	view, err := s.engine.CurrentState(userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sanitizeView(view))
}

type answerRequest struct {
	Answer      string `json:"answer"`
	Remediation bool   `json:"remediation"`
	// Step lets the client assert which step it believes it is answering;
	// a mismatch is answered with the authoritative state instead of
	// silently scoring against the wrong step.
	Step int `json:"step,omitempty"`
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(w, r)

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Answer == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "answer is required"})
		return
	}

	if req.Step != 0 && !req.Remediation {
		view, err := s.engine.CurrentState(userID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if view.Kind == engine.ViewStep && view.Step.ID != req.Step {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error": "out of sync with the current step",
				"state": sanitizeView(view),
			})
			return
		}
	}

	result, err := s.engine.SubmitAnswer(r.Context(), userID, req.Answer, req.Remediation)
	if err != nil {
		s.writeError(w, err)
		return
	}

	submissions.WithLabelValues(string(result.Outcome)).Inc()
	writeJSON(w, http.StatusOK, sanitizeResult(result))
}

func (s *Server) advance(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(w, r)

	step, err := s.engine.Advance(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if step == nil {
		writeJSON(w, http.StatusOK, map[string]any{"advanced": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"advanced": true, "step": publicStep(step)})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(w, r)

	if _, err := s.engine.Reset(r.Context(), userID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(w, r)
	removed := s.store.Delete(userID)
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// sessions reports a diagnostic snapshot of live sessions. Answers and
// generated content stay server-side; only progression state is listed.
func (s *Server) sessions(w http.ResponseWriter, r *http.Request) {
	snapshot := s.store.Snapshot()

	type sessionSummary struct {
		CurrentStep   int  `json:"current_step"`
		FailureCount  int  `json:"failure_count"`
		InRemediation bool `json:"in_remediation"`
		Completed     bool `json:"completed"`
		Answers       int  `json:"answers"`
	}
	out := make(map[string]sessionSummary, len(snapshot))
	for userID, sess := range snapshot {
		out[userID] = sessionSummary{
			CurrentStep:   sess.CurrentStep,
			FailureCount:  sess.FailureCount,
			InRemediation: sess.InRemediation,
			Completed:     sess.Completed,
			Answers:       len(sess.History),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(out), "sessions": out})
}

// userID reads the anonymous identity cookie, issuing a fresh one when
// absent.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(userCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     userCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session; start the module first"})
	case errors.Is(err, domain.ErrModuleCompleted):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "module already completed"})
	case errors.Is(err, domain.ErrNotInRemediation):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "not in remediation mode"})
	case errors.Is(err, domain.ErrRemoteUnavailable), errors.Is(err, domain.ErrMalformedResponse):
		s.logger.Warn("dialogue model failure surfaced to caller", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "error generating feedback; please try again",
		})
	default:
		s.logger.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// publicStep strips grading material (correct answer, gold response) from a
// step before it leaves the server.
func publicStep(step *domain.Step) map[string]any {
	return map[string]any{
		"id":              step.ID,
		"type":            step.Type,
		"scenario":        step.Scenario,
		"options":         step.Options,
		"allow_free_form": step.AllowFreeForm,
	}
}

// sanitizeView removes grading material from a state projection.
func sanitizeView(view *engine.StateView) map[string]any {
	out := map[string]any{"type": view.Kind}
	switch view.Kind {
	case engine.ViewStep:
		out["step"] = publicStep(view.Step)
		out["failure_count"] = view.FailureCount
	case engine.ViewRemediation:
		out["content"] = view.Content
		out["question"] = view.Question
		out["options"] = view.Options
		out["failure_count"] = view.FailureCount
	case engine.ViewCompleted:
		out["history"] = view.History
		out["completed_at"] = view.CompletedAt
	}
	return out
}

// sanitizeResult strips the gold response carrier's grading fields from the
// next step but keeps the gold response of the step just passed, which the
// UI shows on successful transition.
func sanitizeResult(result *engine.SubmitResult) map[string]any {
	out := map[string]any{"result": result.Outcome}
	if result.Message != "" {
		out["message"] = result.Message
	}
	if result.Evaluation != nil {
		out["evaluation"] = result.Evaluation
	}
	if result.NextStep != nil {
		out["next_step"] = publicStep(result.NextStep)
	}
	if result.GoldResponse != "" {
		out["gold_response"] = result.GoldResponse
	}
	if result.Remediation != nil {
		out["remediation"] = map[string]any{
			"explanation": result.Remediation.Explanation,
			"scenario":    result.Remediation.Scenario,
			"options":     result.Remediation.Options,
			"hint":        result.Remediation.Hint,
		}
	}
	if result.MiniLesson != nil {
		out["mini_lesson"] = result.MiniLesson
	}
	if result.LessonContent != "" {
		out["formatted_content"] = result.LessonContent
	}
	if result.SelectedOption != "" {
		out["selected_option"] = result.SelectedOption
	}
	if result.History != nil {
		out["history"] = result.History
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

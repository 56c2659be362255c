// Package api provides the HTTP handlers for the coaching service.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aman-dalan/AI-Hackathon/internal/evaluation"
	"github.com/aman-dalan/AI-Hackathon/internal/mentor"
	"github.com/aman-dalan/AI-Hackathon/internal/problem"
	"github.com/aman-dalan/AI-Hackathon/internal/runner"
	"github.com/aman-dalan/AI-Hackathon/internal/session"
	"github.com/aman-dalan/AI-Hackathon/internal/store"
)

// Handler holds the dependencies shared by all routes.
type Handler struct {
	registry *session.Registry
	store    *store.Store
	mentor   *mentor.Client
	eval     *evaluation.Client
	runner   runner.Runner
	catalog  *problem.CatalogClient

	clock       session.Clock
	quietWindow time.Duration

	hints  *hintHub
	logger *slog.Logger
}

// Options configures a Handler.
type Options struct {
	Registry    *session.Registry
	Store       *store.Store
	Mentor      *mentor.Client
	Eval        *evaluation.Client
	Runner      runner.Runner
	Catalog     *problem.CatalogClient // optional
	Clock       session.Clock
	QuietWindow time.Duration
	Logger      *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(opts Options) *Handler {
	if opts.Clock == nil {
		opts.Clock = session.RealClock()
	}
	if opts.QuietWindow <= 0 {
		opts.QuietWindow = session.DefaultQuietInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Handler{
		registry:    opts.Registry,
		store:       opts.Store,
		mentor:      opts.Mentor,
		eval:        opts.Eval,
		runner:      opts.Runner,
		catalog:     opts.Catalog,
		clock:       opts.Clock,
		quietWindow: opts.QuietWindow,
		hints:       newHintHub(),
		logger:      opts.Logger,
	}
}

// RegisterRoutes mounts all API routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", h.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Post("/messages", h.postMessage)
			r.Post("/hint", h.postHint)
			r.Post("/code", h.postCode)
			r.Post("/run", h.postRun)
			r.Post("/submit", h.postSubmit)
		})

		r.Get("/problems", h.listProblems)
		r.Get("/problems/{id}", h.getProblem)
		r.Post("/problems/parse", h.parseProblem)
	})

	r.Get("/ws/sessions/{id}/hints", h.serveHints)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// entry looks up a live session, writing a 404 when missing.
func (h *Handler) entry(w http.ResponseWriter, r *http.Request) *session.Entry {
	id := chi.URLParam(r, "id")
	e := h.registry.Get(id)
	if e == nil {
		Error(w, http.StatusNotFound, "session not found")
		return nil
	}
	return e
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

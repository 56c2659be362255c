package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aman-dalan/AI-Hackathon/internal/problem"
	"github.com/aman-dalan/AI-Hackathon/internal/store"
)

const maxPasteBytes = 1 << 20

func (h *Handler) listProblems(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		JSON(w, http.StatusOK, problem.FallbackProblems())
		return
	}

	difficulty := problem.Difficulty(r.URL.Query().Get("difficulty"))
	problems, err := h.store.Problems.List(r.Context(), difficulty)
	if err != nil {
		h.logger.Error("failed to list problems", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list problems")
		return
	}
	if problems == nil {
		problems = []problem.Problem{}
	}
	JSON(w, http.StatusOK, problems)
}

func (h *Handler) getProblem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if h.store != nil {
		p, err := h.store.Problems.Get(r.Context(), id)
		if err == nil {
			JSON(w, http.StatusOK, p)
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("failed to load problem", "problem", id, "error", err)
			Error(w, http.StatusInternalServerError, "failed to load problem")
			return
		}
	}

	if h.catalog != nil {
		p, err := h.catalog.Fetch(r.Context(), id)
		if err == nil {
			JSON(w, http.StatusOK, p)
			return
		}
	}

	Error(w, http.StatusNotFound, "problem not found")
}

// parseProblem extracts a problem from pasted statement text. Parsing is
// best-effort; a paste with no recognizable examples still succeeds with an
// empty test-case list.
func (h *Handler) parseProblem(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPasteBytes))
	if err != nil {
		Error(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) == 0 {
		Error(w, http.StatusBadRequest, "pasted text is required")
		return
	}

	p := problem.ParsePasted(string(body))
	JSON(w, http.StatusOK, p)
}

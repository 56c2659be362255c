package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aman-dalan/AI-Hackathon/internal/persona"
	"github.com/aman-dalan/AI-Hackathon/internal/problem"
	"github.com/aman-dalan/AI-Hackathon/internal/session"
	"github.com/aman-dalan/AI-Hackathon/internal/store"
)

type createSessionRequest struct {
	ProblemID  string `json:"problemId"`
	PastedText string `json:"pastedText"`
	SkillLevel string `json:"skillLevel"`
	Language   string `json:"language"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.resolveProblem(r, req)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	language := req.Language
	if language == "" {
		language = "python"
	}

	s := session.New(uuid.NewString(), *p, persona.ParseLevel(req.SkillLevel), language)

	var summaries session.SummaryWriter
	if h.store != nil {
		summaries = h.store.Summaries
	}
	orch := session.NewOrchestrator(s, h.mentor, h.runner, h.eval, summaries, h.logger)

	h.registry.Put(s.ID, &session.Entry{
		Orchestrator: orch,
		Debouncer:    session.NewDebouncer(h.clock, h.quietWindow),
	})

	h.logger.Info("session created", "session", s.ID, "problem", p.ID, "level", s.SkillLevel)
	JSON(w, http.StatusCreated, orch.Snapshot())
}

// resolveProblem loads the session's problem from pasted text, the local
// store, or the remote catalog, in that order of preference.
func (h *Handler) resolveProblem(r *http.Request, req createSessionRequest) (*problem.Problem, error) {
	if strings.TrimSpace(req.PastedText) != "" {
		p := problem.ParsePasted(req.PastedText)
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		return &p, nil
	}

	if req.ProblemID == "" {
		return nil, errors.New("problemId or pastedText is required")
	}

	if h.store != nil {
		p, err := h.store.Problems.Get(r.Context(), req.ProblemID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	if h.catalog != nil {
		p, err := h.catalog.Fetch(r.Context(), req.ProblemID)
		if err != nil {
			return nil, err
		}
		if h.store != nil {
			if err := h.store.Problems.Upsert(r.Context(), *p); err != nil {
				h.logger.Warn("failed to cache catalog problem", "problem", p.ID, "error", err)
			}
		}
		return p, nil
	}

	return nil, errors.New("unknown problem: " + req.ProblemID)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}
	JSON(w, http.StatusOK, e.Orchestrator.Snapshot())
}

type postMessageRequest struct {
	Text string `json:"text"`
}

func (h *Handler) postMessage(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}

	var req postMessageRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		Error(w, http.StatusBadRequest, "message text is required")
		return
	}

	result, err := e.Orchestrator.SubmitMessage(r.Context(), req.Text)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	JSON(w, http.StatusOK, result)
}

func (h *Handler) postHint(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}

	result, err := e.Orchestrator.RequestHint(r.Context())
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	JSON(w, http.StatusOK, result)
}

type postCodeRequest struct {
	Code string `json:"code"`
}

func (h *Handler) postCode(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}

	var req postCodeRequest
	if !decode(w, r, &req) {
		return
	}

	if err := e.Orchestrator.UpdateCode(req.Code); err != nil {
		Error(w, http.StatusConflict, err.Error())
		return
	}

	// Rearm the inactivity hint; a later edit cancels this one.
	sessionID := e.Orchestrator.Session().ID
	e.Debouncer.Touch(e.Orchestrator, func(hint string) {
		h.hints.Publish(sessionID, hint)
	})

	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) postRun(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}

	result, err := e.Orchestrator.RunCode(r.Context())
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	JSON(w, http.StatusOK, result)
}

type submitRequest struct {
	TimeComplexity  string `json:"timeComplexity"`
	SpaceComplexity string `json:"spaceComplexity"`
}

func (h *Handler) postSubmit(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}

	var req submitRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := e.Orchestrator.Submit(r.Context(), req.TimeComplexity, req.SpaceComplexity)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	JSON(w, http.StatusOK, result)
}

package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aman-dalan/AI-Hackathon/internal/evaluation"
	"github.com/aman-dalan/AI-Hackathon/internal/hint"
	"github.com/aman-dalan/AI-Hackathon/internal/mentor"
	"github.com/aman-dalan/AI-Hackathon/internal/runner"
	"github.com/aman-dalan/AI-Hackathon/internal/store"
)

// Static fallbacks shown when an external call fails. The session state is
// left untouched in every fallback path.
const (
	fallbackMentorReply = "I'm having trouble processing your request right now. Please try again."
	fallbackHint        = "Take another look at the problem statement and the first example — what pattern do you notice?"
	fallbackEvaluation  = "The evaluation service is unavailable right now. Your work is saved; please submit again in a moment."
	fallbackRunMessage  = "The code runner is unavailable right now. Please try again."
)

// Validation errors for missing preconditions. These are surfaced to the
// caller as user-visible messages; the action is not attempted.
var (
	ErrNoTestCases       = errors.New("this problem has no test cases to run against")
	ErrMissingComplexity = errors.New("a time and space complexity estimate is required before submitting")
	ErrEditorLocked      = errors.New("the editor is locked until your approach is accepted")
	ErrSessionFinished   = errors.New("this session has already been evaluated")
)

// SummaryWriter persists finished-session summaries.
type SummaryWriter interface {
	Save(ctx context.Context, s store.SessionSummary) error
}

// Orchestrator drives one session through its phases. Each user action maps
// to one operation; results are explicit records the caller renders.
//
// mu serializes all operations on the session. HTTP handlers and the
// inactivity timer goroutine both reach the same state, so every operation
// (AutoHint included) takes the lock for its full duration; phase
// transitions are atomic with the mentor call that triggered them.
type Orchestrator struct {
	mu      sync.Mutex
	session *Session
	mentor  *mentor.Client
	runner  runner.Runner
	eval    *evaluation.Client

	summaries SummaryWriter
	logger    *slog.Logger
}

// NewOrchestrator wires an orchestrator around a session. summaries may be
// nil when no persistence is configured.
func NewOrchestrator(s *Session, m *mentor.Client, r runner.Runner, e *evaluation.Client, summaries SummaryWriter, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		session:   s,
		mentor:    m,
		runner:    r,
		eval:      e,
		summaries: summaries,
		logger:    logger,
	}
}

// Session returns the underlying session state. Callers that may run
// concurrently with operations must use Snapshot instead.
func (o *Orchestrator) Session() *Session {
	return o.session
}

// Snapshot returns a copy of the session that is safe to encode while
// operations continue on other goroutines.
func (o *Orchestrator) Snapshot() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := *o.session
	s.Chat = append([]ChatMessage(nil), o.session.Chat...)
	return s
}

// LastActive reports the session's last activity time.
func (o *Orchestrator) LastActive() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.LastActive
}

// MessageResult is the outcome of a SubmitMessage call.
type MessageResult struct {
	Reply          string `json:"reply"`
	EditorUnlocked bool   `json:"editorUnlocked"`
	PhaseChanged   bool   `json:"phaseChanged"`
	Phase          Phase  `json:"phase"`
	Fallback       bool   `json:"fallback"`
}

// SubmitMessage routes a chat message to the mentor call matching the
// current phase. In the Approach phase it may unlock the editor and advance
// to Coding; the unlock fires when the mentor signals it OR when the
// approach text alone exceeds the length threshold.
func (o *Orchestrator) SubmitMessage(ctx context.Context, text string) (*MessageResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.session
	s.touch()
	s.appendMessage(RoleUser, text)

	in := o.mentorInput(text)
	result := &MessageResult{Phase: s.Phase}

	switch s.Phase {
	case PhaseApproach:
		res, err := o.mentor.EvaluateApproach(ctx, in)
		if err != nil {
			o.logger.Warn("approach evaluation failed", "session", s.ID, "error", err)
			s.appendMessage(RoleAssistant, fallbackMentorReply)
			result.Reply = fallbackMentorReply
			result.Fallback = true
			return result, nil
		}

		s.Approach = text
		result.Reply = res.Reply

		if res.Unlock || len(strings.TrimSpace(text)) > unlockLengthThreshold {
			s.EditorLocked = false
			s.Phase = PhaseCoding
			result.EditorUnlocked = true
			result.PhaseChanged = true
			result.Phase = PhaseCoding
		}

	case PhaseCoding:
		reply, err := o.mentor.CodingGuidance(ctx, in)
		if err != nil {
			o.logger.Warn("coding guidance failed", "session", s.ID, "error", err)
			s.appendMessage(RoleAssistant, fallbackMentorReply)
			result.Reply = fallbackMentorReply
			result.Fallback = true
			return result, nil
		}
		result.Reply = reply

	case PhaseEvaluation:
		reply, err := o.mentor.GeneralFeedback(ctx, in)
		if err != nil {
			o.logger.Warn("general feedback failed", "session", s.ID, "error", err)
			s.appendMessage(RoleAssistant, fallbackMentorReply)
			result.Reply = fallbackMentorReply
			result.Fallback = true
			return result, nil
		}
		result.Reply = reply
	}

	s.appendMessage(RoleAssistant, result.Reply)
	return result, nil
}

// HintResult is the outcome of a RequestHint call.
type HintResult struct {
	Hint      string `json:"hint"`
	HintsUsed int    `json:"hintsUsed"`
	Fallback  bool   `json:"fallback"`
}

// RequestHint produces an explicit hint. The hint counter increments once
// per call regardless of whether the mentor call succeeds.
func (o *Orchestrator) RequestHint(ctx context.Context) (*HintResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.session
	s.touch()
	s.HintsUsed++

	text, err := o.mentor.GenerateHint(ctx, o.mentorInput(""))
	if err != nil || text == "" {
		if err != nil {
			o.logger.Warn("hint generation failed", "session", s.ID, "error", err)
		}
		fallback := hint.Pick(s.Code, s.Problem)
		if fallback == "" {
			fallback = fallbackHint
		}
		s.appendMessage(RoleAssistant, fallback)
		return &HintResult{Hint: fallback, HintsUsed: s.HintsUsed, Fallback: true}, nil
	}

	s.appendMessage(RoleAssistant, text)
	return &HintResult{Hint: text, HintsUsed: s.HintsUsed}, nil
}

// RunResult is the outcome of a RunCode call.
type RunResult struct {
	Report   *runner.Report `json:"report,omitempty"`
	Message  string         `json:"message,omitempty"`
	Fallback bool           `json:"fallback"`
}

// RunCode executes the current code against the problem's test cases. The
// new report replaces any prior one; the phase never changes.
func (o *Orchestrator) RunCode(ctx context.Context) (*RunResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.session
	s.touch()

	if len(s.Problem.TestCases) == 0 {
		return nil, ErrNoTestCases
	}

	report, err := o.runner.Run(ctx, s.Code, s.Language, s.Problem)
	if err != nil {
		o.logger.Warn("code run failed", "session", s.ID, "error", err)
		return &RunResult{Message: fallbackRunMessage, Fallback: true}, nil
	}

	s.LastRun = report
	return &RunResult{Report: report}, nil
}

// SubmitResult is the outcome of a final submission.
type SubmitResult struct {
	Feedback         string `json:"feedback"`
	Verdict          string `json:"verdict,omitempty"`
	RecommendedLevel string `json:"recommendedLevel,omitempty"`
	Phase            Phase  `json:"phase"`
	Fallback         bool   `json:"fallback"`
}

// Submit runs the final evaluation. The phase advances to Evaluation only
// when the evaluation call succeeds; on failure phase and editor lock are
// unchanged and the caller sees a fallback message.
func (o *Orchestrator) Submit(ctx context.Context, timeComplexity, spaceComplexity string) (*SubmitResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.session
	s.touch()

	if s.Phase == PhaseEvaluation {
		return nil, ErrSessionFinished
	}
	if strings.TrimSpace(timeComplexity) == "" || strings.TrimSpace(spaceComplexity) == "" {
		return nil, ErrMissingComplexity
	}

	res, err := o.eval.Evaluate(ctx, evaluation.Input{
		Problem:         s.Problem,
		SkillLevel:      s.SkillLevel,
		Approach:        s.Approach,
		Code:            s.Code,
		TimeComplexity:  timeComplexity,
		SpaceComplexity: spaceComplexity,
		HintsUsed:       s.HintsUsed,
		LastRun:         s.LastRun,
	})
	if err != nil {
		o.logger.Warn("evaluation failed", "session", s.ID, "error", err)
		return &SubmitResult{Feedback: fallbackEvaluation, Phase: s.Phase, Fallback: true}, nil
	}

	s.TimeComplexity = timeComplexity
	s.SpaceComplexity = spaceComplexity
	s.Phase = PhaseEvaluation
	s.Verdict = res.Verdict
	s.RecommendedLevel = res.RecommendedLevel
	s.appendMessage(RoleAssistant, res.Feedback)

	o.persistSummary(ctx, res.Feedback)

	return &SubmitResult{
		Feedback:         res.Feedback,
		Verdict:          res.Verdict,
		RecommendedLevel: string(res.RecommendedLevel),
		Phase:            s.Phase,
	}, nil
}

// UpdateCode records an editor edit. Returns ErrEditorLocked while the
// approach has not yet been accepted.
func (o *Orchestrator) UpdateCode(code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.session
	if s.EditorLocked {
		return ErrEditorLocked
	}
	s.Code = code
	s.touch()
	return nil
}

// AutoHint produces an inactivity hint from the heuristic tiers. It never
// touches the hint counter and returns "" when the code is too short to
// hint on or the session is not in the Coding phase.
func (o *Orchestrator) AutoHint() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.session
	if s.Phase != PhaseCoding || s.EditorLocked {
		return ""
	}
	return hint.Pick(s.Code, s.Problem)
}

func (o *Orchestrator) mentorInput(message string) mentor.Input {
	s := o.session
	return mentor.Input{
		Problem:    s.Problem,
		SkillLevel: s.SkillLevel,
		Message:    message,
		Code:       s.Code,
		Approach:   s.Approach,
		HintsUsed:  s.HintsUsed,
	}
}

func (o *Orchestrator) persistSummary(ctx context.Context, feedback string) {
	if o.summaries == nil {
		return
	}
	s := o.session
	summary := store.SessionSummary{
		SessionID:        s.ID,
		ProblemID:        s.Problem.ID,
		SkillLevel:       string(s.SkillLevel),
		Phase:            string(s.Phase),
		HintsUsed:        s.HintsUsed,
		EditorUnlocked:   !s.EditorLocked,
		Verdict:          s.Verdict,
		RecommendedLevel: string(s.RecommendedLevel),
		Feedback:         feedback,
		CreatedAt:        s.CreatedAt,
		FinishedAt:       time.Now(),
	}
	if err := o.summaries.Save(ctx, summary); err != nil {
		o.logger.Warn("failed to persist session summary", "session", s.ID, "error", err)
	}
}

// Package session holds the live state of a coaching session and the
// orchestrator that drives it through its phases.
package session

import (
	"time"

	"github.com/aman-dalan/AI-Hackathon/internal/persona"
	"github.com/aman-dalan/AI-Hackathon/internal/problem"
	"github.com/aman-dalan/AI-Hackathon/internal/runner"
)

// Phase is the session's guided stage.
type Phase string

const (
	PhaseApproach   Phase = "approach"
	PhaseCoding     Phase = "coding"
	PhaseEvaluation Phase = "evaluation"
)

// unlockLengthThreshold is the approach length beyond which the editor
// unlocks regardless of the mentor's judgment. A long-but-wrong approach
// unlocks the editor the same as a short-but-correct one; this mirrors the
// product's observed behavior and is kept deliberately.
const unlockLengthThreshold = 30

// Role labels a chat message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry in the session's append-only chat log.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the complete state of one coaching session. It is owned by a
// single Orchestrator and mutated only through its operations.
type Session struct {
	ID         string          `json:"id"`
	Problem    problem.Problem `json:"problem"`
	SkillLevel persona.Level   `json:"skillLevel"`
	Language   string          `json:"language"`

	Phase        Phase  `json:"phase"`
	EditorLocked bool   `json:"editorLocked"`
	Approach     string `json:"approach"`
	Code         string `json:"code"`
	HintsUsed    int    `json:"hintsUsed"`

	Chat    []ChatMessage  `json:"chat"`
	LastRun *runner.Report `json:"lastRun,omitempty"`

	TimeComplexity  string `json:"timeComplexity,omitempty"`
	SpaceComplexity string `json:"spaceComplexity,omitempty"`

	Verdict          string        `json:"verdict,omitempty"`
	RecommendedLevel persona.Level `json:"recommendedLevel,omitempty"`

	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

// New creates a session in the Approach phase with a locked editor.
func New(id string, p problem.Problem, level persona.Level, language string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Problem:      p,
		SkillLevel:   level,
		Language:     language,
		Phase:        PhaseApproach,
		EditorLocked: true,
		CreatedAt:    now,
		LastActive:   now,
	}
}

func (s *Session) appendMessage(role Role, content string) {
	s.Chat = append(s.Chat, ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

func (s *Session) touch() {
	s.LastActive = time.Now()
}

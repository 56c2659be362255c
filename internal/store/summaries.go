package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionSummary is the durable record written when a session finishes.
// Live session state stays in memory; only the outcome is persisted.
type SessionSummary struct {
	SessionID        string
	ProblemID        string
	SkillLevel       string
	Phase            string
	HintsUsed        int
	EditorUnlocked   bool
	Verdict          string
	RecommendedLevel string
	Feedback         string
	CreatedAt        time.Time
	FinishedAt       time.Time
}

// SummaryRepo persists session summaries.
type SummaryRepo struct {
	db *sql.DB
}

// Save inserts or replaces a session summary.
func (r *SummaryRepo) Save(ctx context.Context, s SessionSummary) error {
	if s.SessionID == "" {
		return errors.New("session id is required")
	}

	var finished sql.NullInt64
	if !s.FinishedAt.IsZero() {
		finished = sql.NullInt64{Int64: s.FinishedAt.Unix(), Valid: true}
	}
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_summaries
			(session_id, problem_id, skill_level, phase, hints_used, editor_unlocked,
			 verdict, recommended_level, feedback, created_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			phase = excluded.phase,
			hints_used = excluded.hints_used,
			editor_unlocked = excluded.editor_unlocked,
			verdict = excluded.verdict,
			recommended_level = excluded.recommended_level,
			feedback = excluded.feedback,
			finished_at = excluded.finished_at`,
		s.SessionID, s.ProblemID, s.SkillLevel, s.Phase, s.HintsUsed,
		boolToInt(s.EditorUnlocked), s.Verdict, s.RecommendedLevel, s.Feedback,
		createdAt.Unix(), finished,
	)
	if err != nil {
		return fmt.Errorf("save session summary %s: %w", s.SessionID, err)
	}
	return nil
}

// Get returns one summary by session id, or ErrNotFound.
func (r *SummaryRepo) Get(ctx context.Context, sessionID string) (*SessionSummary, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT session_id, problem_id, skill_level, phase, hints_used, editor_unlocked,
		       verdict, recommended_level, feedback, created_at, finished_at
		FROM session_summaries WHERE session_id = ?`, sessionID)

	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns summaries in reverse chronological order.
func (r *SummaryRepo) List(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id, problem_id, skill_level, phase, hints_used, editor_unlocked,
		       verdict, recommended_level, feedback, created_at, finished_at
		FROM session_summaries ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list session summaries: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanSummary(row rowScanner) (*SessionSummary, error) {
	var s SessionSummary
	var unlocked int
	var createdAt int64
	var finished sql.NullInt64
	var verdict, recLevel, feedback sql.NullString

	err := row.Scan(&s.SessionID, &s.ProblemID, &s.SkillLevel, &s.Phase,
		&s.HintsUsed, &unlocked, &verdict, &recLevel, &feedback,
		&createdAt, &finished)
	if err != nil {
		return nil, err
	}

	s.EditorUnlocked = unlocked != 0
	s.Verdict = verdict.String
	s.RecommendedLevel = recLevel.String
	s.Feedback = feedback.String
	s.CreatedAt = time.Unix(createdAt, 0)
	if finished.Valid {
		s.FinishedAt = time.Unix(finished.Int64, 0)
	}
	return &s, nil
}

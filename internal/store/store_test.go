package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aman-dalan/AI-Hackathon/internal/problem"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProblemRepo_UpsertGetList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := problem.Problem{
		ID:         "two-sum",
		Title:      "Two Sum",
		Difficulty: problem.DifficultyEasy,
		Statement:  "Find two numbers.",
		TestCases:  []problem.TestCase{{Input: "a", Expected: "1"}},
		Source:     "builtin",
	}
	if err := s.Problems.Upsert(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Problems.Get(ctx, "two-sum")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Two Sum" || len(got.TestCases) != 1 || got.TestCases[0].Expected != "1" {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	// Upsert overwrites.
	p.Title = "Two Sum (updated)"
	if err := s.Problems.Upsert(ctx, p); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, _ = s.Problems.Get(ctx, "two-sum")
	if got.Title != "Two Sum (updated)" {
		t.Fatalf("upsert did not overwrite: %q", got.Title)
	}

	list, err := s.Problems.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 problem, got %d", len(list))
	}

	hard, err := s.Problems.List(ctx, problem.DifficultyHard)
	if err != nil {
		t.Fatalf("list hard: %v", err)
	}
	if len(hard) != 0 {
		t.Fatalf("expected no hard problems, got %d", len(hard))
	}
}

func TestProblemRepo_GetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Problems.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProblemRepo_SeedOnlyWhenEmpty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seeded, err := s.Problems.Seed(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if seeded != len(problem.FallbackProblems()) {
		t.Fatalf("expected %d seeded, got %d", len(problem.FallbackProblems()), seeded)
	}

	// Second seed is a no-op.
	seeded, err = s.Problems.Seed(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if seeded != 0 {
		t.Fatalf("expected no reseeding, got %d", seeded)
	}
}

func TestSummaryRepo_SaveGetList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	summary := SessionSummary{
		SessionID:        "sess-1",
		ProblemID:        "two-sum",
		SkillLevel:       "intermediate",
		Phase:            "evaluation",
		HintsUsed:        2,
		EditorUnlocked:   true,
		Verdict:          "good",
		RecommendedLevel: "advanced",
		Feedback:         "Nice work.",
		CreatedAt:        time.Now().Add(-time.Hour),
		FinishedAt:       time.Now(),
	}
	if err := s.Summaries.Save(ctx, summary); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Summaries.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Verdict != "good" || got.HintsUsed != 2 || !got.EditorUnlocked {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if got.FinishedAt.IsZero() {
		t.Fatal("finished time lost")
	}

	list, err := s.Summaries.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(list))
	}

	if _, err := s.Summaries.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLLMEventRepo_AppendListGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "mock", Purpose: "approach", InputTokens: 10, OutputTokens: 20, LatencyMs: 5, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "mock", Model: "mock", Purpose: "hint", Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := s.Events.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	list, err := s.Events.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 events, got %d", len(list))
	}
	// Reverse chronological: most recent insert first.
	if list[0].Purpose != "hint" {
		t.Fatalf("unexpected order, first is %q", list[0].Purpose)
	}

	filtered, err := s.Events.List(ctx, ListOptions{Purpose: "approach"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(filtered) != 1 || filtered[0].InputTokens != 10 {
		t.Fatalf("unexpected filter result: %+v", filtered)
	}

	got, err := s.Events.Get(ctx, filtered[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RequestBody != "req" || got.ResponseBody != "resp" || !got.Success {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	if _, err := s.Events.Get(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

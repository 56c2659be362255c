package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aman-dalan/AI-Hackathon/internal/evaluation"
	"github.com/aman-dalan/AI-Hackathon/internal/llm"
	"github.com/aman-dalan/AI-Hackathon/internal/mentor"
	"github.com/aman-dalan/AI-Hackathon/internal/persona"
	"github.com/aman-dalan/AI-Hackathon/internal/problem"
	"github.com/aman-dalan/AI-Hackathon/internal/runner"
	"github.com/aman-dalan/AI-Hackathon/internal/store"
)

var testProblem = problem.Problem{
	ID:        "two-sum",
	Title:     "Two Sum",
	Statement: "Given an array of integers nums, find two numbers that add up to target.",
	TestCases: []problem.TestCase{
		{Input: "nums = [2,7], target = 9", Expected: "[0,1]"},
	},
}

// stubRunner returns a fixed report or error.
type stubRunner struct {
	report *runner.Report
	err    error
}

func (s *stubRunner) Run(context.Context, string, string, problem.Problem) (*runner.Report, error) {
	return s.report, s.err
}

// memorySummaries records saved summaries.
type memorySummaries struct {
	saved []store.SessionSummary
}

func (m *memorySummaries) Save(_ context.Context, s store.SessionSummary) error {
	m.saved = append(m.saved, s)
	return nil
}

func newTestOrchestrator(mock *llm.MockProvider, r runner.Runner, summaries SummaryWriter) *Orchestrator {
	s := New("sess-1", testProblem, persona.LevelIntermediate, "python")
	return NewOrchestrator(s,
		mentor.NewClient(mock, mentor.DefaultClientConfig()),
		r,
		evaluation.NewClient(mock, evaluation.DefaultClientConfig()),
		summaries, nil)
}

func TestSubmitMessage_LongApproachUnlocksDespiteMentor(t *testing.T) {
	// The mentor withholds the unlock marker, but the approach is 61
	// characters, so the length fallback fires anyway.
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Tell me more about your hash map."},
	)
	o := newTestOrchestrator(mock, &stubRunner{}, nil)

	approach := "I will use a hash map to store seen values and check complements"
	res, err := o.SubmitMessage(context.Background(), approach)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.EditorUnlocked {
		t.Fatal("length fallback should unlock the editor")
	}
	if o.Session().EditorLocked {
		t.Fatal("session should record the unlocked editor")
	}
	if o.Session().Phase != PhaseCoding {
		t.Fatalf("expected Coding phase, got %s", o.Session().Phase)
	}
}

func TestSubmitMessage_SentinelUnlocksShortApproach(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Looks good, start coding!\n" + mentor.UnlockSentinel},
	)
	o := newTestOrchestrator(mock, &stubRunner{}, nil)

	res, err := o.SubmitMessage(context.Background(), "hash map")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.EditorUnlocked {
		t.Fatal("mentor signal should unlock the editor")
	}
	if res.Phase != PhaseCoding {
		t.Fatalf("expected Coding phase, got %s", res.Phase)
	}
}

func TestSubmitMessage_ShortApproachStaysLocked(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Can you be more specific?"},
	)
	o := newTestOrchestrator(mock, &stubRunner{}, nil)

	res, err := o.SubmitMessage(context.Background(), "loop over it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.EditorUnlocked {
		t.Fatal("short approach without signal must not unlock")
	}
	if !o.Session().EditorLocked || o.Session().Phase != PhaseApproach {
		t.Fatal("session must stay in Approach with a locked editor")
	}
}

func TestSubmitMessage_MentorFailureLeavesStateUnchanged(t *testing.T) {
	mock := llm.NewMockProvider() // every call fails
	o := newTestOrchestrator(mock, &stubRunner{}, nil)

	// 61-char approach would unlock on a successful call.
	approach := "I will use a hash map to store seen values and check complements"
	res, err := o.SubmitMessage(context.Background(), approach)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Fallback {
		t.Fatal("expected a fallback reply")
	}
	if res.EditorUnlocked || !o.Session().EditorLocked {
		t.Fatal("a failed mentor call must not unlock the editor")
	}
	if o.Session().Phase != PhaseApproach {
		t.Fatal("a failed mentor call must not change the phase")
	}
}

func TestSubmitMessage_AppendsBothMessages(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Interesting idea."},
	)
	o := newTestOrchestrator(mock, &stubRunner{}, nil)

	if _, err := o.SubmitMessage(context.Background(), "use two pointers"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chat := o.Session().Chat
	if len(chat) != 2 {
		t.Fatalf("expected 2 chat entries, got %d", len(chat))
	}
	if chat[0].Role != RoleUser || chat[1].Role != RoleAssistant {
		t.Fatalf("unexpected roles: %s, %s", chat[0].Role, chat[1].Role)
	}
}

func TestRequestHint_CountsOncePerCallEvenOnFailure(t *testing.T) {
	mock := llm.NewMockProvider() // hint call fails
	o := newTestOrchestrator(mock, &stubRunner{}, nil)

	res, err := o.RequestHint(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HintsUsed != 1 {
		t.Fatalf("expected hintsUsed 1, got %d", res.HintsUsed)
	}
	if !res.Fallback || res.Hint == "" {
		t.Fatal("failed hint call should fall back to a static hint")
	}

	mock.AddResponse(llm.MockResponse{Text: "Think about complements."})
	res, _ = o.RequestHint(context.Background())
	if res.HintsUsed != 2 {
		t.Fatalf("expected hintsUsed 2, got %d", res.HintsUsed)
	}
}

func TestAutoHint_DoesNotTouchCounter(t *testing.T) {
	mock := llm.NewMockProvider()
	o := newTestOrchestrator(mock, &stubRunner{}, nil)

	s := o.Session()
	s.Phase = PhaseCoding
	s.EditorLocked = false
	s.Code = "def two_sum(nums, target):\n    seen = {}\n    result = []\n    pass"

	if text := o.AutoHint(); text == "" {
		t.Fatal("expected an auto hint for coding-phase code")
	}
	if s.HintsUsed != 0 {
		t.Fatalf("auto hint must not increment hintsUsed, got %d", s.HintsUsed)
	}
}

func TestAutoHint_SilentOutsideCoding(t *testing.T) {
	o := newTestOrchestrator(llm.NewMockProvider(), &stubRunner{}, nil)
	o.Session().Code = "plenty of code that would otherwise produce a hint for sure"

	if text := o.AutoHint(); text != "" {
		t.Fatalf("no auto hint in Approach phase, got %q", text)
	}
}

func TestRunCode_ReplacesReport(t *testing.T) {
	report := &runner.Report{
		Results:   []runner.TestResult{{Input: "a", Expected: "1", Actual: "1", Passed: true}},
		AllPassed: true,
	}
	o := newTestOrchestrator(llm.NewMockProvider(), &stubRunner{report: report}, nil)
	o.Session().LastRun = &runner.Report{AllPassed: false}

	res, err := o.RunCode(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Report != report || o.Session().LastRun != report {
		t.Fatal("run must replace the prior report")
	}
	if o.Session().Phase != PhaseApproach {
		t.Fatal("running code must not change the phase")
	}
}

func TestRunCode_NoTestCases(t *testing.T) {
	o := newTestOrchestrator(llm.NewMockProvider(), &stubRunner{}, nil)
	o.Session().Problem.TestCases = nil

	_, err := o.RunCode(context.Background())
	if !errors.Is(err, ErrNoTestCases) {
		t.Fatalf("expected ErrNoTestCases, got %v", err)
	}
}

func TestRunCode_RunnerFailureLeavesReport(t *testing.T) {
	prior := &runner.Report{AllPassed: true}
	o := newTestOrchestrator(llm.NewMockProvider(), &stubRunner{err: errors.New("sandbox down")}, nil)
	o.Session().LastRun = prior

	res, err := o.RunCode(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Fallback || res.Message == "" {
		t.Fatal("expected a fallback message")
	}
	if o.Session().LastRun != prior {
		t.Fatal("a failed run must not replace the prior report")
	}
}

func TestSubmit_RequiresComplexity(t *testing.T) {
	o := newTestOrchestrator(llm.NewMockProvider(), &stubRunner{}, nil)

	if _, err := o.Submit(context.Background(), "", "O(1)"); !errors.Is(err, ErrMissingComplexity) {
		t.Fatalf("expected ErrMissingComplexity, got %v", err)
	}
	if _, err := o.Submit(context.Background(), "O(n)", "  "); !errors.Is(err, ErrMissingComplexity) {
		t.Fatalf("expected ErrMissingComplexity, got %v", err)
	}
}

func TestSubmit_SuccessTransitionsAndPersists(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		JSON: json.RawMessage(`{"feedback": "Well done.", "verdict": "good", "recommended_level": "advanced"}`),
	})
	summaries := &memorySummaries{}
	o := newTestOrchestrator(mock, &stubRunner{}, summaries)
	o.Session().Phase = PhaseCoding
	o.Session().EditorLocked = false

	res, err := o.Submit(context.Background(), "O(n)", "O(n)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Phase != PhaseEvaluation || o.Session().Phase != PhaseEvaluation {
		t.Fatal("successful submit must advance to Evaluation")
	}
	if res.Verdict != "good" || res.RecommendedLevel != "advanced" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(summaries.saved) != 1 {
		t.Fatalf("expected 1 saved summary, got %d", len(summaries.saved))
	}
	if summaries.saved[0].SessionID != "sess-1" || summaries.saved[0].Verdict != "good" {
		t.Fatalf("unexpected summary: %+v", summaries.saved[0])
	}
}

func TestSubmit_FailureLeavesPhase(t *testing.T) {
	mock := llm.NewMockProvider() // evaluation call fails
	o := newTestOrchestrator(mock, &stubRunner{}, nil)
	o.Session().Phase = PhaseCoding
	o.Session().EditorLocked = false

	res, err := o.Submit(context.Background(), "O(n)", "O(1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Fallback {
		t.Fatal("expected fallback result")
	}
	if o.Session().Phase != PhaseCoding {
		t.Fatal("a failed evaluation must not change the phase")
	}
	if o.Session().EditorLocked {
		t.Fatal("a failed evaluation must not relock the editor")
	}
}

func TestSubmit_AlreadyEvaluated(t *testing.T) {
	o := newTestOrchestrator(llm.NewMockProvider(), &stubRunner{}, nil)
	o.Session().Phase = PhaseEvaluation

	if _, err := o.Submit(context.Background(), "O(n)", "O(1)"); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished, got %v", err)
	}
}

func TestUpdateCode_LockedEditor(t *testing.T) {
	o := newTestOrchestrator(llm.NewMockProvider(), &stubRunner{}, nil)

	if err := o.UpdateCode("print(1)"); !errors.Is(err, ErrEditorLocked) {
		t.Fatalf("expected ErrEditorLocked, got %v", err)
	}

	o.Session().EditorLocked = false
	if err := o.UpdateCode("print(1)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Session().Code != "print(1)" {
		t.Fatal("code not recorded")
	}
}

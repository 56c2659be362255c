package runner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aman-dalan/AI-Hackathon/internal/llm"
	"github.com/aman-dalan/AI-Hackathon/internal/problem"
)

var testProblem = problem.Problem{
	ID:        "two-sum",
	Title:     "Two Sum",
	Statement: "Find two numbers that add up to target.",
	TestCases: []problem.TestCase{
		{Input: "nums = [2,7], target = 9", Expected: "[0,1]"},
		{Input: "nums = [3,3], target = 6", Expected: "[0,1]"},
	},
}

func TestLLMRunner_AllPassed(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		JSON: json.RawMessage(`{
			"results": [
				{"input": "nums = [2,7], target = 9", "expected": "[0,1]", "actual": "[0,1]", "passed": true, "error": null},
				{"input": "nums = [3,3], target = 6", "expected": "[0,1]", "actual": "[0,1]", "passed": true, "error": null}
			],
			"passed_all": true,
			"feedback": "Both cases pass."
		}`),
	})
	r := NewLLMRunner(mock, DefaultLLMRunnerConfig())

	report, err := r.Run(context.Background(), "code", "python", testProblem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.AllPassed {
		t.Fatal("expected AllPassed")
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
}

func TestLLMRunner_ErroringCaseFailsRun(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		JSON: json.RawMessage(`{
			"results": [
				{"input": "a", "expected": "1", "actual": "1", "passed": true, "error": null},
				{"input": "b", "expected": "2", "actual": "", "passed": true, "error": "KeyError: 'x'"}
			],
			"passed_all": true,
			"feedback": "One case crashed."
		}`),
	})
	r := NewLLMRunner(mock, DefaultLLMRunnerConfig())

	report, err := r.Run(context.Background(), "code", "python", testProblem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An erroring case is never a pass, whatever the model claimed.
	if report.Results[1].Passed {
		t.Fatal("erroring case must be reported as not passed")
	}
	if report.Results[1].Error == "" {
		t.Fatal("erroring case must carry its error")
	}
	if report.AllPassed {
		t.Fatal("a run with an erroring case must not be AllPassed")
	}
}

func TestLLMRunner_SchemaAttached(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		JSON: json.RawMessage(`{"results": [], "passed_all": false, "feedback": "empty"}`),
	})
	r := NewLLMRunner(mock, DefaultLLMRunnerConfig())

	if _, err := r.Run(context.Background(), "code", "python", testProblem); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.Calls[0].Schema == nil || mock.Calls[0].Schema.Name != "code-run" {
		t.Fatal("run request must carry the run schema")
	}
}

func TestSandboxRunner_Run(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/run" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req sandboxRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.TestCases) != 2 {
			t.Errorf("expected 2 test cases, got %d", len(req.TestCases))
		}

		json.NewEncoder(w).Encode(sandboxResponse{
			Results: []struct {
				Input    string `json:"input"`
				Expected string `json:"expected"`
				Actual   string `json:"actual"`
				Passed   bool   `json:"passed"`
				Error    string `json:"error"`
			}{
				{Input: "a", Expected: "1", Actual: "1", Passed: true},
				{Input: "b", Expected: "2", Actual: "3", Passed: false},
			},
		})
	}))
	defer srv.Close()

	r := NewSandboxRunner(srv.URL)
	report, err := r.Run(context.Background(), "code", "python", testProblem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.AllPassed {
		t.Fatal("expected a failing run")
	}
	if len(report.Results) != 2 || !report.Results[0].Passed || report.Results[1].Passed {
		t.Fatalf("unexpected results: %+v", report.Results)
	}
}

func TestSandboxRunner_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewSandboxRunner(srv.URL)
	if _, err := r.Run(context.Background(), "code", "python", testProblem); err == nil {
		t.Fatal("expected error on sandbox failure")
	}
}

// Package runner executes learner code against a problem's test cases,
// either through an external sandbox service or an LLM-simulated run.
package runner

import (
	"context"

	"github.com/aman-dalan/AI-Hackathon/internal/problem"
)

// TestResult is the outcome of one test case. Error is non-empty when the
// case failed to execute rather than producing a wrong answer; an erroring
// case is always reported as not passed.
type TestResult struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
	Error    string `json:"error,omitempty"`
}

// Report is the result of one run. Each run produces a fresh report that
// replaces any prior one.
type Report struct {
	Results   []TestResult `json:"results"`
	AllPassed bool         `json:"allPassed"`
	Feedback  string       `json:"feedback,omitempty"`
}

// Runner executes code against a problem's test cases.
type Runner interface {
	Run(ctx context.Context, code, language string, p problem.Problem) (*Report, error)
}

// summarize fills AllPassed from individual results and normalizes the
// passed flag on erroring cases.
func summarize(report *Report) {
	all := len(report.Results) > 0
	for i := range report.Results {
		if report.Results[i].Error != "" {
			report.Results[i].Passed = false
		}
		if !report.Results[i].Passed {
			all = false
		}
	}
	report.AllPassed = all
}

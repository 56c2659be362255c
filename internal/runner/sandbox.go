package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aman-dalan/AI-Hackathon/internal/problem"
)

// SandboxRunner executes code in an external sandbox service.
// The service accepts POST {base}/run and returns per-test-case results.
type SandboxRunner struct {
	baseURL string
	client  *http.Client
}

// NewSandboxRunner creates a runner for the given sandbox base URL.
func NewSandboxRunner(baseURL string) *SandboxRunner {
	return &SandboxRunner{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type sandboxRequest struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	TestCases []struct {
		Input    string `json:"input"`
		Expected string `json:"expected"`
	} `json:"testCases"`
}

type sandboxResponse struct {
	Results []struct {
		Input    string `json:"input"`
		Expected string `json:"expected"`
		Actual   string `json:"actual"`
		Passed   bool   `json:"passed"`
		Error    string `json:"error"`
	} `json:"results"`
}

// Run submits the code and test cases to the sandbox.
func (r *SandboxRunner) Run(ctx context.Context, code, language string, p problem.Problem) (*Report, error) {
	reqBody := sandboxRequest{Code: code, Language: language}
	for _, tc := range p.TestCases {
		reqBody.TestCases = append(reqBody.TestCases, struct {
			Input    string `json:"input"`
			Expected string `json:"expected"`
		}{tc.Input, tc.Expected})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal sandbox request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/run", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build sandbox request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sandbox run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sandbox returned status %d", resp.StatusCode)
	}

	var sbResp sandboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&sbResp); err != nil {
		return nil, fmt.Errorf("decode sandbox response: %w", err)
	}

	report := &Report{}
	for _, res := range sbResp.Results {
		report.Results = append(report.Results, TestResult{
			Input:    res.Input,
			Expected: res.Expected,
			Actual:   res.Actual,
			Passed:   res.Passed,
			Error:    res.Error,
		})
	}
	summarize(report)
	return report, nil
}

package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/aman-dalan/AI-Hackathon/internal/llm"
	"github.com/aman-dalan/AI-Hackathon/internal/problem"
)

// LLMRunnerConfig holds configuration for the simulated runner.
type LLMRunnerConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultLLMRunnerConfig returns sensible defaults. Temperature is kept low
// so the trace stays faithful to the code rather than creative.
func DefaultLLMRunnerConfig() LLMRunnerConfig {
	return LLMRunnerConfig{
		MaxTokens:   1024,
		Temperature: 0.1,
	}
}

// LLMRunner simulates code execution by asking the model to trace the code
// against each test case. Used when no sandbox service is configured.
type LLMRunner struct {
	provider llm.Provider
	cfg      LLMRunnerConfig
}

// NewLLMRunner creates a simulated runner.
func NewLLMRunner(provider llm.Provider, cfg LLMRunnerConfig) *LLMRunner {
	return &LLMRunner{provider: provider, cfg: cfg}
}

// runOutput is the raw LLM response.
type runOutput struct {
	Results []struct {
		Input    string  `json:"input"`
		Expected string  `json:"expected"`
		Actual   string  `json:"actual"`
		Passed   bool    `json:"passed"`
		Error    *string `json:"error"`
	} `json:"results"`
	PassedAll bool   `json:"passed_all"`
	Feedback  string `json:"feedback"`
}

// Run traces the code against every test case of the problem.
func (r *LLMRunner) Run(ctx context.Context, code, language string, p problem.Problem) (*Report, error) {
	ctx = llm.WithPurpose(ctx, "run")

	userMsg, err := buildRunMessage(code, language, p)
	if err != nil {
		return nil, fmt.Errorf("build run prompt: %w", err)
	}

	req := llm.Request{
		System: runSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      RunSchema,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	}

	resp, err := r.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("simulated run failed: %w", err)
	}

	var raw runOutput
	if err := json.Unmarshal(resp.JSON, &raw); err != nil {
		return nil, fmt.Errorf("parse run response: %w", err)
	}

	report := &Report{Feedback: raw.Feedback}
	for _, res := range raw.Results {
		tr := TestResult{
			Input:    res.Input,
			Expected: res.Expected,
			Actual:   res.Actual,
			Passed:   res.Passed,
		}
		if res.Error != nil {
			tr.Error = *res.Error
		}
		report.Results = append(report.Results, tr)
	}
	summarize(report)
	return report, nil
}

const runSystemPrompt = `You are a precise code execution simulator. Trace the given code mentally against each test case and report the actual output the code would produce.

Instructions:
- Execute the code exactly as written, including any bugs. Do not fix or improve it.
- If the code would raise an exception or fail to run for a case, set "error" to a short description and "passed" to false; otherwise set "error" to null.
- "passed" is true only when the actual output matches the expected output.
- Keep "feedback" to at most two sentences summarizing the run.`

var runUserTemplate = template.Must(template.New("run").Parse(`Problem: {{.Problem.Title}}
{{.Problem.Statement}}

Language: {{.Language}}

Code:
{{.Code}}

Test cases:
{{range $i, $tc := .Problem.TestCases}}{{$i}}. input: {{$tc.Input}} | expected: {{$tc.Expected}}
{{end}}`))

func buildRunMessage(code, language string, p problem.Problem) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Problem  problem.Problem
		Code     string
		Language string
	}{p, code, language}
	if err := runUserTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RunSchema defines the JSON schema for simulated run responses.
var RunSchema = &llm.Schema{
	Name:        "code-run",
	Description: "Per-test-case results of tracing code against a problem's test cases",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"results": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"input":    map[string]any{"type": "string"},
						"expected": map[string]any{"type": "string"},
						"actual":   map[string]any{"type": "string"},
						"passed":   map[string]any{"type": "boolean"},
						"error": map[string]any{
							"type":        []any{"string", "null"},
							"description": "Short description of the execution failure, or null if the case ran",
						},
					},
					"required":             []any{"input", "expected", "actual", "passed", "error"},
					"additionalProperties": false,
				},
			},
			"passed_all": map[string]any{"type": "boolean"},
			"feedback": map[string]any{
				"type":        "string",
				"description": "At most two sentences summarizing the run",
			},
		},
		"required":             []any{"results", "passed_all", "feedback"},
		"additionalProperties": false,
	},
}

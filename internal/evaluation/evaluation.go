// Package evaluation produces the final assessment of a finished session:
// written feedback, a verdict, and a recommended skill level for the next
// session.
package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/aman-dalan/AI-Hackathon/internal/llm"
	"github.com/aman-dalan/AI-Hackathon/internal/persona"
	"github.com/aman-dalan/AI-Hackathon/internal/problem"
	"github.com/aman-dalan/AI-Hackathon/internal/runner"
)

// ClientConfig holds configuration for the evaluation client.
type ClientConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MaxTokens:   768,
		Temperature: 0.4,
	}
}

// Client issues evaluation requests against an LLM provider.
type Client struct {
	provider llm.Provider
	cfg      ClientConfig
}

// NewClient creates an evaluation client.
func NewClient(provider llm.Provider, cfg ClientConfig) *Client {
	return &Client{provider: provider, cfg: cfg}
}

// Input carries everything the final evaluation considers.
type Input struct {
	Problem         problem.Problem
	SkillLevel      persona.Level
	Approach        string
	Code            string
	TimeComplexity  string
	SpaceComplexity string
	HintsUsed       int
	LastRun         *runner.Report
}

// Result is the final assessment.
type Result struct {
	Feedback         string
	Verdict          string
	RecommendedLevel persona.Level
}

// evalOutput is the raw LLM response.
type evalOutput struct {
	Feedback         string `json:"feedback"`
	Verdict          string `json:"verdict"`
	RecommendedLevel string `json:"recommended_level"`
}

// Evaluate assesses the submitted solution.
func (c *Client) Evaluate(ctx context.Context, in Input) (*Result, error) {
	ctx = llm.WithPurpose(ctx, "evaluation")

	userMsg, err := buildEvalMessage(in)
	if err != nil {
		return nil, fmt.Errorf("build evaluation prompt: %w", err)
	}

	req := llm.Request{
		System: evalSystemPrompt(in.SkillLevel),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      EvaluationSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	var raw evalOutput
	if err := json.Unmarshal(resp.JSON, &raw); err != nil {
		return nil, fmt.Errorf("parse evaluation response: %w", err)
	}

	return &Result{
		Feedback:         raw.Feedback,
		Verdict:          raw.Verdict,
		RecommendedLevel: persona.ParseLevel(raw.RecommendedLevel),
	}, nil
}

func evalSystemPrompt(level persona.Level) string {
	p := persona.ForLevel(level)
	return fmt.Sprintf(`You are an AI coach writing the final evaluation of a coding session. Your tone is %s.

Assess correctness, the stated complexity against the actual code, code quality, and how independently the learner worked (hints used). Recommend a skill level for the next session: "beginner", "intermediate", or "advanced".`, p.Tone)
}

var evalUserTemplate = template.Must(template.New("eval").Parse(`Problem: {{.Problem.Title}} ({{.Problem.Difficulty}})
{{.Problem.Statement}}

Learner's stated approach:
{{if .Approach}}{{.Approach}}{{else}}(not stated){{end}}

Final code:
{{.Code}}

Self-assessed complexity: time {{.TimeComplexity}}, space {{.SpaceComplexity}}
Hints used: {{.HintsUsed}}
{{if .LastRun}}Last run: {{if .LastRun.AllPassed}}all test cases passed{{else}}some test cases failed{{end}}{{end}}

Please evaluate this session.`))

func buildEvalMessage(in Input) (string, error) {
	var buf bytes.Buffer
	if err := evalUserTemplate.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EvaluationSchema defines the JSON schema for evaluation responses.
var EvaluationSchema = &llm.Schema{
	Name:        "session-evaluation",
	Description: "Final assessment of a coding session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{
				"type":        "string",
				"description": "Written evaluation shown to the learner",
			},
			"verdict": map[string]any{
				"type":        "string",
				"enum":        []any{"excellent", "good", "needs-work"},
				"description": "Overall verdict for the session",
			},
			"recommended_level": map[string]any{
				"type":        "string",
				"enum":        []any{"beginner", "intermediate", "advanced"},
				"description": "Suggested skill level for the next session",
			},
		},
		"required":             []any{"feedback", "verdict", "recommended_level"},
		"additionalProperties": false,
	},
}

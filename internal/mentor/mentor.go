// Package mentor wraps the LLM calls that coach a learner through a
// problem: approach review, coding guidance, free-form feedback, and
// on-demand hints.
package mentor

import (
	"context"
	"fmt"
	"strings"

	"github.com/aman-dalan/AI-Hackathon/internal/llm"
	"github.com/aman-dalan/AI-Hackathon/internal/persona"
	"github.com/aman-dalan/AI-Hackathon/internal/problem"
)

// UnlockSentinel is the marker the mentor model emits when it judges an
// approach good enough to start coding. It is stripped before display.
const UnlockSentinel = "ACTION: unlock_editor"

// ClientConfig holds configuration for the mentor client.
type ClientConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MaxTokens:   512,
		Temperature: 0.7,
	}
}

// Client issues mentor requests against an LLM provider.
type Client struct {
	provider llm.Provider
	cfg      ClientConfig
}

// NewClient creates a mentor client.
func NewClient(provider llm.Provider, cfg ClientConfig) *Client {
	return &Client{provider: provider, cfg: cfg}
}

// Input carries the session context a mentor call needs.
type Input struct {
	Problem    problem.Problem
	SkillLevel persona.Level
	Message    string
	Code       string
	Approach   string
	HintsUsed  int
}

// ApproachResult is the outcome of an approach review.
type ApproachResult struct {
	Reply  string
	Unlock bool
}

// EvaluateApproach reviews a proposed approach. When the model judges the
// approach acceptable it emits the unlock sentinel, which is detected and
// stripped from the returned reply.
func (c *Client) EvaluateApproach(ctx context.Context, in Input) (*ApproachResult, error) {
	ctx = llm.WithPurpose(ctx, "approach")

	resp, err := c.generate(ctx, approachSystemPrompt(in), in.Message)
	if err != nil {
		return nil, fmt.Errorf("approach evaluation failed: %w", err)
	}

	text := resp.Text
	unlock := strings.Contains(text, UnlockSentinel)
	if unlock {
		text = strings.TrimSpace(strings.ReplaceAll(text, UnlockSentinel, ""))
	}

	return &ApproachResult{Reply: text, Unlock: unlock}, nil
}

// CodingGuidance answers a question asked while the learner is coding.
func (c *Client) CodingGuidance(ctx context.Context, in Input) (string, error) {
	ctx = llm.WithPurpose(ctx, "guidance")

	resp, err := c.generate(ctx, guidanceSystemPrompt(in), in.Message)
	if err != nil {
		return "", fmt.Errorf("coding guidance failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// GeneralFeedback handles free-form messages outside the guided phases.
func (c *Client) GeneralFeedback(ctx context.Context, in Input) (string, error) {
	ctx = llm.WithPurpose(ctx, "guidance")

	resp, err := c.generate(ctx, feedbackSystemPrompt(in), in.Message)
	if err != nil {
		return "", fmt.Errorf("general feedback failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// GenerateHint produces an explicit hint for the current code.
func (c *Client) GenerateHint(ctx context.Context, in Input) (string, error) {
	ctx = llm.WithPurpose(ctx, "hint")

	userMsg, err := buildHintMessage(in)
	if err != nil {
		return "", fmt.Errorf("build hint prompt: %w", err)
	}

	resp, err := c.generate(ctx, hintSystemPrompt(in), userMsg)
	if err != nil {
		return "", fmt.Errorf("hint generation failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (c *Client) generate(ctx context.Context, system, userMsg string) (*llm.Response, error) {
	req := llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	return c.provider.Generate(ctx, req)
}

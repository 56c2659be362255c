package llm

import (
	"context"
	"errors"
	"testing"
)

func TestResolveModel(t *testing.T) {
	models := map[string]string{
		"claude-haiku": "claude-haiku-4-5",
	}

	if got := resolveModel("claude-haiku", models); got != "claude-haiku-4-5" {
		t.Fatalf("friendly name not resolved: %s", got)
	}
	if got := resolveModel("some-exact-id", models); got != "some-exact-id" {
		t.Fatalf("unknown name should pass through: %s", got)
	}
}

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "first"},
		MockResponse{Text: "second"},
	)

	resp, err := mock.Generate(context.Background(), Request{System: "s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "first" {
		t.Fatalf("expected first response, got %s", resp.Text)
	}

	resp, _ = mock.Generate(context.Background(), Request{})
	if resp.Text != "second" {
		t.Fatalf("expected second response, got %s", resp.Text)
	}

	// Empty queue yields unavailable.
	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}

	if len(mock.Calls) != 3 || mock.Calls[0].System != "s" {
		t.Fatalf("requests not recorded: %+v", mock.Calls)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing anthropic key")
	}

	cfg.Anthropic.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Provider = "nope"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	cfg.Provider = "mock"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("mock provider needs no key: %v", err)
	}
}

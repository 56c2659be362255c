package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

type retryDecision int

const (
	retryNever retryDecision = iota
	retryOnce
	retryAlways
)

// RetryProvider re-issues failed requests with capped exponential backoff.
// Error classification lives with the error types; the one policy decision
// made here is that a schema-invalid reply is reprompted exactly once.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	delay := r.cfg.InitialWait
	repromptsLeft := 1

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if repromptsLeft == 0 {
				return nil, err
			}
			repromptsLeft--
		}

		if attempt >= r.cfg.MaxAttempts {
			return nil, err
		}

		if waitErr := sleep(ctx, waitBefore(err, delay)); waitErr != nil {
			return nil, waitErr
		}
		delay = min(time.Duration(float64(delay)*r.cfg.Multiplier), r.cfg.MaxWait)
	}
}

func classify(err error) retryDecision {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retryNever
	}

	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		return retryOnce
	}

	var classified interface{ transient() bool }
	if errors.As(err, &classified) {
		if classified.transient() {
			return retryAlways
		}
		return retryNever
	}

	// Unclassified errors (transport resets, unexpected payloads) are
	// assumed transient.
	return retryAlways
}

// waitBefore returns the pause ahead of the next attempt. A rate-limited
// call waits exactly as long as the provider asked; everything else gets
// the backoff delay with ±20% jitter so concurrent sessions don't retry
// in lockstep.
func waitBefore(err error, delay time.Duration) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	return time.Duration(float64(delay) * (0.8 + 0.4*rand.Float64()))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

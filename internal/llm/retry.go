package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryProvider re-issues failed requests with capped exponential backoff.
// A schema mismatch is retried at most once per call; rate limits honour
// the vendor's RetryAfter hint.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p. A MaxAttempts below 2 disables retrying.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 2 {
		return p
	}
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err         error
		sawInvalid  bool
		maxAttempts = r.config.MaxAttempts
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !Retryable(err) {
			return nil, err
		}
		var inv *ErrInvalidResponse
		if errors.As(err, &inv) {
			if sawInvalid {
				return nil, err
			}
			sawInvalid = true
		}
		if attempt == maxAttempts-1 {
			break
		}

		t := time.NewTimer(r.delay(attempt, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// delay is InitialWait * Multiplier^attempt, capped at MaxWait, with 20%
// jitter either way.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(r.config.InitialWait)
	for range attempt {
		d *= r.config.Multiplier
		if d >= float64(r.config.MaxWait) {
			d = float64(r.config.MaxWait)
			break
		}
	}
	d += d * 0.2 * (rand.Float64()*2 - 1)
	return time.Duration(max(d, 0))
}

package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/elimu-ai/elimu/pkg/processing"
)

const (
	DefaultAttempts = 3

	DefaultBaseDelay = 1 * time.Second
	DefaultMaxDelay  = 10 * time.Second
)

type Config struct {
	op string

	attempts int

	baseDelay time.Duration
	maxDelay  time.Duration

	sleeper func(context.Context, time.Duration) error
}

type Option func(*Config)

func WithOp(op string) Option {
	return func(c *Config) {
		c.op = op
	}
}

func WithAttempts(attempts int) Option {
	return func(c *Config) {
		c.attempts = attempts
	}
}

func WithBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Config) {
		c.baseDelay = baseDelay
		c.maxDelay = maxDelay
	}
}

// WithSleeper overrides how backoff sleeps are performed.
func WithSleeper(sleeper func(context.Context, time.Duration) error) Option {
	return func(c *Config) {
		c.sleeper = sleeper
	}
}

// Do runs op until it succeeds, fails with an error that is not retryable,
// or runs out of attempts.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), options ...Option) (T, error) {
	cfg := &Config{
		op: "retry",

		attempts: DefaultAttempts,

		baseDelay: DefaultBaseDelay,
		maxDelay:  DefaultMaxDelay,

		sleeper: sleep,
	}

	for _, option := range options {
		option(cfg)
	}

	if cfg.attempts <= 0 {
		cfg.attempts = 1
	}

	var zero T
	var lastErr error

	for attempt := 1; attempt <= cfg.attempts; attempt++ {
		if attempt > 1 {
			delay := cfg.delay(attempt)

			slog.DebugContext(ctx, "retrying operation", "op", cfg.op, "attempt", attempt, "delay", delay, "error", lastErr)

			if err := cfg.sleeper(ctx, delay); err != nil {
				return zero, &processing.Error{
					Kind: processing.KindProcessingFailed,
					Op:   cfg.op,

					Message:  "retry interrupted",
					Attempts: attempt - 1,

					Err: errors.Join(err, lastErr),
				}
			}
		}

		result, err := op(ctx)

		if err == nil {
			return result, nil
		}

		if !processing.Retryable(err) {
			return zero, err
		}

		lastErr = err
	}

	return zero, &processing.Error{
		Kind: processing.KindProcessingFailed,
		Op:   cfg.op,

		Message:  fmt.Sprintf("failed after %d attempts", cfg.attempts),
		Attempts: cfg.attempts,

		Err: lastErr,
	}
}

// delay before attempt n (n >= 2) is base * 2^(n-2), capped at max
func (c *Config) delay(attempt int) time.Duration {
	if attempt < 2 || c.baseDelay <= 0 {
		return 0
	}

	delay := c.baseDelay

	for i := 2; i < attempt; i++ {
		if c.maxDelay > 0 && delay > c.maxDelay/2 {
			return c.maxDelay
		}

		delay *= 2
	}

	if c.maxDelay > 0 && delay > c.maxDelay {
		return c.maxDelay
	}

	return delay
}

func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

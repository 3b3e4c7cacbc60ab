// Package retry runs an operation a bounded number of times with a linearly
// growing pause between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrExhausted matches any *ExhaustedError.
var ErrExhausted = errors.New("retries exhausted")

// ExhaustedError is returned once every attempt failed. Err is the last failure.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

// Config bounds a retry sequence.
type Config struct {
	MaxAttempts int
	Step        time.Duration
}

// Scheduler holds a retry policy. It is safe for concurrent use; each Do call
// gets its own backoff state.
type Scheduler struct {
	cfg    Config
	logger *slog.Logger

	// OnRetry, when set, is called before each pause with the attempt that just
	// failed and the pause that follows it.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// New returns a Scheduler. MaxAttempts below 1 is treated as 1.
func New(cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{cfg: cfg, logger: logger}
}

// MaxAttempts returns the configured attempt budget.
func (s *Scheduler) MaxAttempts() int { return s.cfg.MaxAttempts }

// linear waits n*step after the n-th failed attempt.
type linear struct {
	step time.Duration
	n    int
}

func (l *linear) NextBackOff() time.Duration {
	l.n++
	return time.Duration(l.n) * l.step
}

func (l *linear) Reset() { l.n = 0 }

// Do calls op until it succeeds, MaxAttempts is reached, or ctx ends.
// Exhaustion yields *ExhaustedError; cancellation yields the context cause.
func Do[T any](ctx context.Context, s *Scheduler, op func(context.Context) (T, error)) (T, error) {
	attempts := 0
	var lastErr error

	res, err := backoff.Retry(ctx, func() (T, error) {
		attempts++
		v, err := op(ctx)
		if err != nil {
			lastErr = err
		}
		return v, err
	},
		backoff.WithBackOff(&linear{step: s.cfg.Step}),
		backoff.WithMaxTries(uint(s.cfg.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.logger.Warn("attempt failed, retrying",
				"event", "retry_scheduled",
				"attempt", attempts,
				"max_attempts", s.cfg.MaxAttempts,
				"delay_ms", next.Milliseconds(),
				"error", err.Error(),
			)
			if s.OnRetry != nil {
				s.OnRetry(attempts, next, err)
			}
		}),
	)
	if err == nil {
		return res, nil
	}

	var zero T
	if ctx.Err() != nil {
		return zero, context.Cause(ctx)
	}
	return zero, &ExhaustedError{Attempts: attempts, Err: lastErr}
}

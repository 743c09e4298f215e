// Package retry runs an operation again with exponential backoff until it
// succeeds, the attempt budget runs out, or the context is cancelled.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrExhausted matches every *ExhaustedError via errors.Is.
var ErrExhausted = errors.New("retry attempts exhausted")

// Config holds the backoff policy.
type Config struct {
	// MaxAttempts counts the first call. Zero or less retries until ctx is done.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps a single wait. Zero means no cap.
	MaxDelay time.Duration

	// Multiplier grows the wait after every failure (default 2).
	Multiplier float64

	// OnRetry, when set, is called after a failed attempt and before sleeping.
	OnRetry func(attempt int, next time.Duration, err error)
}

// DefaultConfig is the policy used for outbound HTTP calls: 3 attempts,
// 500ms then 1s between them.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
	}
}

// Delay returns the wait after the given failed attempt (0-indexed).
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	mult := c.Multiplier
	if mult <= 0 {
		mult = 2
	}

	delay := float64(c.InitialDelay) * math.Pow(mult, float64(attempt))
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	return time.Duration(delay)
}

// ExhaustedError is returned when every attempt failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying. Do returns it unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds. It returns fn's result, the unwrapped error
// of a Permanent failure, ctx.Err() wrapped with the last failure when the
// context ends first, or an *ExhaustedError.
func Do[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}

		if cfg.MaxAttempts > 0 && attempt+1 >= cfg.MaxAttempts {
			return zero, &ExhaustedError{Attempts: attempt + 1, Err: err}
		}

		delay := cfg.Delay(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("%w (after %d attempts, last error: %v)", ctx.Err(), attempt+1, err)
		case <-timer.C:
		}
	}
}

// Package retry runs operations with bounded exponential backoff.
//
// It knows nothing about the error taxonomy: callers decide which failures
// are transient by passing a Predicate.
package retry

import (
	"context"
	"math"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// Config defines retry behavior.
type Config struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	InitialDelay    time.Duration `yaml:"initial_delay"`
	MaxDelay        time.Duration `yaml:"max_delay"` // 0 = uncapped
	BackoffMultiple float64       `yaml:"backoff_multiple"`
}

// DefaultConfig provides sensible defaults.
var DefaultConfig = Config{
	MaxAttempts:     3,
	InitialDelay:    100 * time.Millisecond,
	MaxDelay:        10 * time.Second,
	BackoffMultiple: 2.0,
}

// Predicate reports whether err is worth another attempt.
type Predicate func(err error) bool

// Option customises a single Do call.
type Option func(*options)

type options struct {
	onRetry func(attempt int, err error, delay time.Duration)
}

// OnRetry registers fn to be called before each backoff wait. attempt is the
// number of the attempt that just failed, starting at 1.
func OnRetry(fn func(attempt int, err error, delay time.Duration)) Option {
	return func(o *options) {
		o.onRetry = fn
	}
}

// Do invokes op until it succeeds, fails with an error retryable rejects, or
// cfg.MaxAttempts attempts have been made. The last error is returned
// unchanged. Backoff waits stop early when ctx is done.
func Do[T any](ctx context.Context, cfg Config, retryable Predicate, op func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	cfg = cfg.normalized()

	var (
		lastErr error
		failed  int
	)

	schedule := goretry.BackoffFunc(func() (time.Duration, bool) {
		delay := calculateBackoff(failed-1, cfg)
		if o.onRetry != nil {
			o.onRetry(failed, lastErr, delay)
		}
		return delay, false
	})
	backoff := goretry.WithMaxRetries(uint64(cfg.MaxAttempts-1), schedule)

	return goretry.DoValue(ctx, backoff, func(ctx context.Context) (T, error) {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		failed++
		lastErr = err
		if retryable != nil && retryable(err) {
			return v, goretry.RetryableError(err)
		}
		return v, err
	})
}

func (c Config) normalized() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.InitialDelay < 0 {
		c.InitialDelay = 0
	}
	if c.BackoffMultiple <= 0 {
		c.BackoffMultiple = DefaultConfig.BackoffMultiple
	}
	return c
}

func calculateBackoff(attempt int, config Config) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffMultiple, float64(attempt))
	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}

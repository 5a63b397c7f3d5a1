package submit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

// RetryPolicy configures WithRetry.
type RetryPolicy struct {
	// MaxTries is the total number of attempts, including the first.
	MaxTries uint

	// InitialInterval and MaxInterval bound the exponential backoff between
	// attempts. Zero values keep the backoff package defaults.
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// Retryable decides whether an error is worth another attempt. Nil
	// retries every error.
	Retryable func(error) bool
}

// DefaultRetryPolicy makes three attempts starting at 50ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxTries:        3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}
}

// WithRetry retries op with exponential backoff. The wrapped write keeps its
// token across attempts, so retries count against the concurrency limit.
func WithRetry(op WriteFunc, p RetryPolicy) WriteFunc {
	return func(ctx context.Context, req Request) error {
		bo := backoff.NewExponentialBackOff()
		if p.InitialInterval > 0 {
			bo.InitialInterval = p.InitialInterval
		}
		if p.MaxInterval > 0 {
			bo.MaxInterval = p.MaxInterval
		}

		opts := []backoff.RetryOption{backoff.WithBackOff(bo)}
		if p.MaxTries > 0 {
			opts = append(opts, backoff.WithMaxTries(p.MaxTries))
		}

		_, err := backoff.Retry(ctx, func() (struct{}, error) {
			err := op(ctx, req)
			if err != nil && p.Retryable != nil && !p.Retryable(err) {
				return struct{}{}, backoff.Permanent(err)
			}
			return struct{}{}, err
		}, opts...)
		return err
	}
}

// ErrWriteTimeout is returned by WithTimeout when a write overruns.
var ErrWriteTimeout = errors.New("write timed out")

// WithTimeout bounds each call of op to d. A write that ignores its context is
// abandoned when the deadline passes, so a hung backend call gives its token
// back instead of holding it forever.
func WithTimeout(op WriteFunc, d time.Duration) WriteFunc {
	return func(ctx context.Context, req Request) error {
		ctx, cancel := context.WithTimeoutCause(ctx, d, ErrWriteTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- op(ctx, req)
		}()

		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return fmt.Errorf("%w after %v", context.Cause(ctx), d)
		}
	}
}

// Throttle wraps op so that every call also holds one of s's tokens while it
// runs. Batches of another submitter that write through a throttled op count
// against the limit of s as well as their own.
func (s *Submitter) Throttle(op WriteFunc) WriteFunc {
	return func(ctx context.Context, req Request) error {
		if err := s.pool.Acquire(ctx); err != nil {
			return err
		}
		defer s.pool.Release()
		return op(ctx, req)
	}
}

// WithRateLimit waits on limiter before each call of op.
func WithRateLimit(op WriteFunc, limiter *rate.Limiter) WriteFunc {
	return func(ctx context.Context, req Request) error {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
		return op(ctx, req)
	}
}

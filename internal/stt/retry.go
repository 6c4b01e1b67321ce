package stt

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type retryProvider struct {
	next            Provider
	maxRetries      int
	timeout         time.Duration
	initialInterval time.Duration
	maxInterval     time.Duration
}

// WithRetry bounds every attempt by timeout and retries ErrServiceUnavailable
// up to maxRetries times with exponential backoff. ErrUnintelligible is
// returned immediately; any other failure is reported as
// ErrServiceUnavailable.
func WithRetry(next Provider, maxRetries int, timeout time.Duration) Provider {
	return &retryProvider{
		next:            next,
		maxRetries:      maxRetries,
		timeout:         timeout,
		initialInterval: 500 * time.Millisecond,
		maxInterval:     5 * time.Second,
	}
}

func (r *retryProvider) Name() string {
	return r.next.Name()
}

func (r *retryProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	attempt := 0
	operation := func() (*Result, error) {
		attempt++
		attemptCtx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		res, err := r.next.Transcribe(attemptCtx, audioPath)
		if err == nil {
			return res, nil
		}
		if retryable(ctx, err) {
			log.Printf("[STT Retry] %s attempt %d failed: %v", r.next.Name(), attempt, err)
			return res, err
		}
		return res, backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval

	res, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(r.maxRetries+1)),
	)
	if err != nil && !errors.Is(err, ErrServiceUnavailable) && !errors.Is(err, ErrUnintelligible) {
		err = errors.Join(ErrServiceUnavailable, err)
	}
	return res, err
}

// retryable reports whether another attempt may help. A per-attempt timeout
// counts as the service not answering; a cancelled caller does not.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, context.DeadlineExceeded)
}

package detail

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/logging"
)

const (
	// DefaultMaxRetries is the default number of retries after the first attempt
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the initial delay between attempts
	DefaultRetryDelay = 250 * time.Millisecond

	// DefaultMaxRetryDelay caps the exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second
)

// RetryFetcher retries a Fetcher with exponential backoff. Only errors that
// report IsRetryable are retried. It has no knowledge of the controller, so a
// result that arrives after retries is still subject to the staleness check.
type RetryFetcher struct {
	Next          Fetcher
	MaxRetries    uint64
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// NewRetryFetcher wraps next with the default retry policy
func NewRetryFetcher(next Fetcher, maxRetries int) *RetryFetcher {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryFetcher{
		Next:          next,
		MaxRetries:    uint64(maxRetries),
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

func (r *RetryFetcher) policy(ctx context.Context) backoff.BackOff {
	// WithMaxRetries treats zero as unlimited
	if r.MaxRetries == 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.RetryDelay
	exp.MaxInterval = r.MaxRetryDelay
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, r.MaxRetries), ctx)
}

// Fetch calls Next until it succeeds, fails permanently or runs out of retries
func (r *RetryFetcher) Fetch(ctx context.Context, subject airport.Airport) (airport.Info, error) {
	var info airport.Info

	operation := func() error {
		got, err := r.Next.Fetch(ctx, subject)
		if err != nil {
			if !IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		info = got
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logging.Warn("Retrying detail fetch",
			zap.String("airport", subject.Code),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, r.policy(ctx), notify); err != nil {
		if ctx.Err() != nil {
			return airport.Info{}, ctx.Err()
		}
		return airport.Info{}, err
	}
	return info, nil
}

package detail

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/airmap/internal/airport"
)

func countingFetcher(calls *int32, errs ...error) Fetcher {
	return FetcherFunc(func(_ context.Context, a airport.Airport) (airport.Info, error) {
		n := atomic.AddInt32(calls, 1)
		if int(n) <= len(errs) {
			return airport.Info{}, errs[n-1]
		}
		return a.Info(), nil
	})
}

func fastRetry(next Fetcher, retries int) *RetryFetcher {
	r := NewRetryFetcher(next, retries)
	r.RetryDelay = time.Millisecond
	r.MaxRetryDelay = 2 * time.Millisecond
	return r
}

func TestRetryFetcher_RetriesRetryableErrors(t *testing.T) {
	var calls int32
	flaky := NewHTTPError(503, "SFO")
	r := fastRetry(countingFetcher(&calls, flaky, flaky), 3)

	info, err := r.Fetch(context.Background(), sfo)

	require.NoError(t, err)
	assert.Equal(t, sfo.Info(), info)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetryFetcher_StopsOnPermanentError(t *testing.T) {
	var calls int32
	r := fastRetry(countingFetcher(&calls, NewHTTPError(404, "SFO")), 3)

	_, err := r.Fetch(context.Background(), sfo)

	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetryFetcher_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	down := NewHTTPError(500, "SFO")
	r := fastRetry(countingFetcher(&calls, down, down, down, down, down), 2)

	_, err := r.Fetch(context.Background(), sfo)

	assert.True(t, IsHTTPError(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "one attempt plus two retries")
}

func TestRetryFetcher_PlainErrorsAreNotRetried(t *testing.T) {
	var calls int32
	r := fastRetry(countingFetcher(&calls, errors.New("boom")), 3)

	_, err := r.Fetch(context.Background(), sfo)

	assert.EqualError(t, err, "boom")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetryFetcher_Cancelled(t *testing.T) {
	var calls int32
	down := NewHTTPError(500, "SFO")
	r := NewRetryFetcher(countingFetcher(&calls, down, down, down), 3)
	r.RetryDelay = time.Hour
	r.MaxRetryDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(20*time.Millisecond, cancel)
	defer timer.Stop()

	_, err := r.Fetch(ctx, sfo)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetryFetcher_ZeroRetriesMeansOneAttempt(t *testing.T) {
	var calls int32
	down := NewHTTPError(500, "SFO")
	r := fastRetry(countingFetcher(&calls, down, down), -1)

	_, err := r.Fetch(context.Background(), sfo)

	assert.Equal(t, uint64(0), r.MaxRetries)
	assert.True(t, IsHTTPError(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

package detail

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/logging"
)

const (
	// DefaultFetchDelay is how long the simulated fetch takes to resolve
	DefaultFetchDelay = 1 * time.Second
)

// Fetcher produces detail info for an airport. Implementations may block and
// must honour ctx cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, subject airport.Airport) (airport.Info, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, subject airport.Airport) (airport.Info, error)

// Fetch calls f(ctx, subject)
func (f FetcherFunc) Fetch(ctx context.Context, subject airport.Airport) (airport.Info, error) {
	return f(ctx, subject)
}

// Fetch is one pending detail request, tagged with the airport it was issued
// for. It is created by Controller.Select and run by whichever loop owns the
// controller.
type Fetch struct {
	ID      string
	Subject airport.Airport

	fetcher Fetcher
}

// Result is a finished Fetch carrying the same tag back to the controller.
type Result struct {
	ID      string
	Subject airport.Airport
	Info    airport.Info
	Err     error
	Took    time.Duration
}

func newFetch(subject airport.Airport, fetcher Fetcher) *Fetch {
	return &Fetch{
		ID:      ulid.MustNew(ulid.Now(), rand.Reader).String(),
		Subject: subject,
		fetcher: fetcher,
	}
}

// Run performs the fetch. It blocks, so callers run it off the loop and hand
// the Result back to Controller.Complete on the loop.
func (f *Fetch) Run(ctx context.Context) Result {
	start := time.Now()
	info, err := f.fetcher.Fetch(ctx, f.Subject)
	took := time.Since(start)

	logging.LogFetch(f.ID, f.Subject.Code, took, err)

	return Result{
		ID:      f.ID,
		Subject: f.Subject,
		Info:    info,
		Err:     err,
		Took:    took,
	}
}

// SimulatedFetcher stands in for a network lookup: it resolves the airport's
// own display fields after a fixed delay and never fails on its own.
type SimulatedFetcher struct {
	Delay time.Duration
}

// NewSimulatedFetcher creates a fetcher with the given delay.
// A non-positive delay resolves immediately.
func NewSimulatedFetcher(delay time.Duration) *SimulatedFetcher {
	return &SimulatedFetcher{Delay: delay}
}

// Fetch waits for Delay and returns subject.Info()
func (s *SimulatedFetcher) Fetch(ctx context.Context, subject airport.Airport) (airport.Info, error) {
	if s.Delay <= 0 {
		return subject.Info(), ctx.Err()
	}

	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return subject.Info(), nil
	case <-ctx.Done():
		return airport.Info{}, ctx.Err()
	}
}

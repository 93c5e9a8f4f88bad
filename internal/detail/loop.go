package detail

import (
	"context"
	"sync"

	"github.com/muurk/airmap/internal/airport"
)

const eventBuffer = 64

type event func(ctx context.Context)

// Loop drives a Controller from a single goroutine. Selection calls and fetch
// completions are queued on one channel and applied in order, so the
// controller is never touched concurrently. Loop implements Selection.
type Loop struct {
	ctrl   *Controller
	events chan event
	quit   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	// completed, if set, observes every result after Complete has run
	completed func(r Result, applied bool)
}

// NewLoop creates a loop around a fresh controller. Call Run to start it.
func NewLoop(fetcher Fetcher, sink Sink) *Loop {
	return &Loop{
		ctrl:   NewController(fetcher, sink),
		events: make(chan event, eventBuffer),
		quit:   make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled. On return every outstanding
// fetch has been cancelled and has finished; none of their results are
// applied.
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			l.stop()
			cancel()
			l.wg.Wait()
			return nil
		case ev := <-l.events:
			ev(ctx)
		}
	}
}

func (l *Loop) stop() {
	l.once.Do(func() { close(l.quit) })
}

// post queues ev, or drops it once the loop has stopped
func (l *Loop) post(ev event) bool {
	select {
	case <-l.quit:
		return false
	default:
	}

	select {
	case l.events <- ev:
		return true
	case <-l.quit:
		return false
	}
}

func (l *Loop) start(ctx context.Context, f *Fetch) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		r := f.Run(ctx)
		l.post(func(context.Context) {
			applied := l.ctrl.Complete(r)
			if l.completed != nil {
				l.completed(r, applied)
			}
		})
	}()
}

// OnSubjectChosen queues a Select and launches its fetch
func (l *Loop) OnSubjectChosen(subject airport.Airport) {
	l.post(func(ctx context.Context) {
		l.start(ctx, l.ctrl.Select(subject))
	})
}

// OnSubjectCleared queues a Deselect
func (l *Loop) OnSubjectCleared() {
	l.post(func(context.Context) {
		l.ctrl.Deselect()
	})
}

// Reload re-selects the current airport, if any, issuing a fresh fetch.
func (l *Loop) Reload() {
	l.post(func(ctx context.Context) {
		if current, ok := l.ctrl.Current(); ok {
			l.start(ctx, l.ctrl.Select(current))
		}
	})
}

// State returns the controller state as seen by the loop, after every event
// queued before the call has been applied. ok is false if the loop stopped.
func (l *Loop) State(ctx context.Context) (State, bool) {
	reply := make(chan State, 1)
	if !l.post(func(context.Context) { reply <- l.ctrl.State() }) {
		return State{}, false
	}

	select {
	case s := <-reply:
		return s, true
	case <-l.quit:
		return State{}, false
	case <-ctx.Done():
		return State{}, false
	}
}

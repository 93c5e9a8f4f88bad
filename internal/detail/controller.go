package detail

import (
	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/logging"
)

// Phase is the presentation phase of the detail card.
type Phase int

const (
	// PhaseEmpty means nothing is selected and the card is hidden
	PhaseEmpty Phase = iota
	// PhaseLoading means a fetch for the selected airport is in flight
	PhaseLoading
	// PhaseLoaded means the card shows info for the selected airport
	PhaseLoaded
	// PhaseFailed means the fetch for the selected airport failed
	PhaseFailed
)

// String returns a human-readable name for the phase
func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is what the card should currently show. Subject is meaningful in
// every phase but Empty, Info only when Loaded, Err only when Failed.
type State struct {
	Phase   Phase
	Subject airport.Airport
	Info    airport.Info
	Err     error
}

// Sink receives presentation changes from a Controller. Implementations must
// return quickly; they run on the loop that owns the controller.
type Sink interface {
	ShowLoading(subject airport.Airport)
	ShowLoaded(info airport.Info)
	ShowEmpty()
	ShowFailed(subject airport.Airport, err error)
}

// Selection is the inbound side of the map: a pin was chosen or cleared.
type Selection interface {
	OnSubjectChosen(subject airport.Airport)
	OnSubjectCleared()
}

// Controller owns the selected airport and decides which fetch results may
// reach the card. It is not safe for concurrent use; all calls must come from
// the single loop that owns it (the Bubble Tea update loop or a Loop).
type Controller struct {
	fetcher Fetcher
	sink    Sink
	state   State
}

// NewController creates a controller in the Empty state
func NewController(fetcher Fetcher, sink Sink) *Controller {
	return &Controller{
		fetcher: fetcher,
		sink:    sink,
		state:   State{Phase: PhaseEmpty},
	}
}

// Select makes subject current, shows the loading card and returns the one
// fetch the caller must run for it. Select never blocks.
func (c *Controller) Select(subject airport.Airport) *Fetch {
	c.state = State{Phase: PhaseLoading, Subject: subject}
	c.sink.ShowLoading(subject)

	f := newFetch(subject, c.fetcher)
	logging.LogSelection(subject.Code, "chosen")
	return f
}

// Deselect clears the current airport and hides the card. Fetches already in
// flight are left alone; their results will not match and are dropped.
func (c *Controller) Deselect() {
	code := ""
	if c.state.Phase != PhaseEmpty {
		code = c.state.Subject.Code
	}
	c.state = State{Phase: PhaseEmpty}
	c.sink.ShowEmpty()
	logging.LogSelection(code, "cleared")
}

// Complete applies a finished fetch. It reports whether the result reached
// the sink; false means it was stale and was discarded without side effects.
func (c *Controller) Complete(r Result) bool {
	if c.state.Phase != PhaseLoading || !c.state.Subject.Equal(r.Subject) {
		current := ""
		if c.state.Phase != PhaseEmpty {
			current = c.state.Subject.Code
		}
		logging.LogStale(r.ID, r.Subject.Code, current)
		return false
	}

	if r.Err != nil {
		c.state = State{Phase: PhaseFailed, Subject: r.Subject, Err: r.Err}
		c.sink.ShowFailed(r.Subject, r.Err)
		return true
	}

	c.state = State{Phase: PhaseLoaded, Subject: r.Subject, Info: r.Info}
	c.sink.ShowLoaded(r.Info)
	return true
}

// State returns the current presentation state
func (c *Controller) State() State {
	return c.state
}

// Current returns the selected airport, if any.
func (c *Controller) Current() (airport.Airport, bool) {
	if c.state.Phase == PhaseEmpty {
		return airport.Airport{}, false
	}
	return c.state.Subject, true
}

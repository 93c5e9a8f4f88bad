package protocol

import (
	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/detail"
)

// NewLoading builds the update sent when a pin is chosen
func NewLoading(a airport.Airport) *Update {
	return &Update{Type: TypeLoading, Code: a.Code, Airport: &a}
}

// NewLoaded builds the update carrying fetched detail. code is the airport
// the card is showing.
func NewLoaded(code string, info airport.Info) *Update {
	return &Update{Type: TypeLoaded, Code: code, Info: &info}
}

// NewEmpty builds the update sent when the selection is cleared
func NewEmpty() *Update {
	return &Update{Type: TypeEmpty}
}

// NewFailed builds the update sent when the current airport's fetch failed
func NewFailed(a airport.Airport, err error) *Update {
	return &Update{Type: TypeFailed, Code: a.Code, Error: detail.ShortMessage(err)}
}

// NewError builds a reply to a command that could not be applied
func NewError(err error) *Update {
	return &Update{Type: TypeError, Error: err.Error()}
}

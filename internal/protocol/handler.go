package protocol

import (
	"fmt"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/detail"
)

// Lookup resolves an airport code
type Lookup interface {
	Lookup(code string) (airport.Airport, bool)
}

// Target is what commands are applied to; detail.Loop satisfies it.
type Target interface {
	detail.Selection
	Reload()
}

// HandleCommand applies cmd to target. A select for an unknown code is
// answered with an error update and leaves target untouched; otherwise the
// result is nil and the card updates arrive through the target's sink.
func HandleCommand(cmd *Command, airports Lookup, target Target) *Update {
	switch cmd.Type {
	case TypeSelect:
		a, ok := airports.Lookup(cmd.Code)
		if !ok {
			return NewError(fmt.Errorf("unknown airport %q", cmd.Code))
		}
		target.OnSubjectChosen(a)
	case TypeDeselect:
		target.OnSubjectCleared()
	case TypeReload:
		target.Reload()
	default:
		return NewError(fmt.Errorf("unsupported command %q", cmd.Type))
	}
	return nil
}

// HandleMessage parses data and applies it. Parse failures become error
// updates so the feed can keep going.
func HandleMessage(data []byte, airports Lookup, target Target) *Update {
	cmd, err := ParseCommand(data)
	if err != nil {
		return NewError(err)
	}
	return HandleCommand(cmd, airports, target)
}

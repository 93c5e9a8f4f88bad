package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MaxMessageSize bounds a single inbound command
const MaxMessageSize = 4096

// ParseError describes a command that could not be decoded or is incomplete.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid command: %s: %v", e.Reason, e.Err)
	}
	return "invalid command: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseCommand decodes and validates one inbound message. Codes are trimmed
// and upper-cased.
func ParseCommand(data []byte) (*Command, error) {
	if len(data) == 0 {
		return nil, &ParseError{Reason: "empty message"}
	}
	if len(data) > MaxMessageSize {
		return nil, &ParseError{Reason: fmt.Sprintf("message too large (%d bytes)", len(data))}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var cmd Command
	if err := dec.Decode(&cmd); err != nil {
		return nil, &ParseError{Reason: "malformed JSON", Err: err}
	}
	if dec.More() {
		return nil, &ParseError{Reason: "unexpected data after JSON payload"}
	}

	cmd.Type = strings.ToLower(strings.TrimSpace(cmd.Type))
	cmd.Code = strings.ToUpper(strings.TrimSpace(cmd.Code))

	switch cmd.Type {
	case TypeSelect:
		if cmd.Code == "" {
			return nil, &ParseError{Reason: "select requires a code"}
		}
	case TypeDeselect, TypeReload:
		if cmd.Code != "" {
			return nil, &ParseError{Reason: cmd.Type + " takes no code"}
		}
	case "":
		return nil, &ParseError{Reason: "missing type"}
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unknown type %q", cmd.Type)}
	}

	return &cmd, nil
}

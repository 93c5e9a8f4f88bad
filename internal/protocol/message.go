package protocol

import (
	"github.com/muurk/airmap/internal/airport"
)

// Command types sent by a feed client
const (
	TypeSelect   = "select"
	TypeDeselect = "deselect"
	TypeReload   = "reload"
)

// Update types sent by the server
const (
	TypeLoading = "loading"
	TypeLoaded  = "loaded"
	TypeEmpty   = "empty"
	TypeFailed  = "failed"
	TypeError   = "error"
)

// Command is an inbound feed message.
//
//	{"type":"select","code":"SFO"}
//	{"type":"deselect"}
//	{"type":"reload"}
type Command struct {
	Type string `json:"type"`
	Code string `json:"code,omitempty"`
}

// Update is an outbound feed message describing what the card should show.
//
//	{"type":"loading","code":"SFO","airport":{...}}
//	{"type":"loaded","code":"SFO","info":{"name":...,"city":...,"country":...}}
//	{"type":"empty"}
//	{"type":"failed","code":"SFO","error":"..."}
//	{"type":"error","error":"unknown airport \"XXX\""}
//
// Error updates answer a bad command and never reflect controller state.
type Update struct {
	Type    string           `json:"type"`
	Code    string           `json:"code,omitempty"`
	Airport *airport.Airport `json:"airport,omitempty"`
	Info    *airport.Info    `json:"info,omitempty"`
	Error   string           `json:"error,omitempty"`
}

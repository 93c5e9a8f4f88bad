// Package protocol implements the airmap selection feed.
//
// The feed is JSON text over a WebSocket. A client drives one detail card by
// sending commands; the server answers with updates describing what the card
// should show.
//
// # Commands
//
//	{"type":"select","code":"SFO"}   choose a pin
//	{"type":"deselect"}              clear the selection
//	{"type":"reload"}                fetch the current pin again
//
// Codes are case-insensitive. Unknown fields are rejected.
//
// # Updates
//
//	loading  a pin was chosen; carries the airport
//	loaded   detail arrived for the current pin
//	empty    the selection was cleared
//	failed   the fetch for the current pin failed
//	error    a command was malformed or named an unknown airport
//
// Results for pins that are no longer selected are never sent, so a client
// can render every presentation update as it arrives.
package protocol

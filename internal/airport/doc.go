// Package airport holds the map's subject model and its data source.
//
// An Airport is an immutable, comparable value. Detail results are matched
// against the selected airport with plain value equality, so an airport that
// shares a code with another but differs in any other field is a different
// subject.
//
// The Catalog is loaded once at startup, either from the JSON file bundled
// into the binary or from a user supplied file with the same shape:
//
//	[
//	  {"code": "SFO", "lat": "37.615223", "lon": "-122.389977",
//	   "name": "San Francisco International Airport",
//	   "city": "San Francisco", "country": "United States"}
//	]
//
// Any read, parse or validation failure is reported as a *LoadError. Callers
// treat it as fatal.
package airport

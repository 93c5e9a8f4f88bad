// Package server implements the airmap detail server.
//
// The server answers detail lookups over HTTP and drives detail cards for
// remote clients over a WebSocket feed. It is the network counterpart of the
// map's simulated fetch: detail resolves after a configurable latency, so
// clients see the same loading behaviour against a real endpoint.
//
// # Endpoints
//
//	GET /api/health              status, version, catalog size, open sessions
//	GET /api/airports            the full catalog
//	GET /api/airports/{code}     one airport (404 if unknown)
//	GET /api/airports/{code}/info  detail after the configured latency
//	GET /ws                      selection feed (see package protocol)
//
// # Feed Sessions
//
// Every feed connection gets its own detail.Loop. The connection is the
// loop's sink: presentation changes are queued and written by one writer
// goroutine, so the loop never blocks on the network. Results for airports
// that are no longer selected are dropped by the loop and never written.
//
// # Usage Example
//
//	srv := server.New(&server.Config{Port: 8080, Latency: time.Second}, catalog)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled and then shuts down gracefully,
// closing any open feed connections.
package server

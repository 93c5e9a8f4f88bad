// Package detail sequences the airport detail card.
//
// A Controller holds the selected airport and a presentation State. Selecting
// an airport shows the loading card at once and hands back a Fetch tagged
// with that airport; whoever owns the controller runs the fetch off-loop and
// returns its Result through Complete. Complete applies a result only while
// the card is still loading and the tag equals the selected airport, so
// out-of-order and superseded fetches never reach the card:
//
//	f := ctrl.Select(sfo)          // sink.ShowLoading(sfo)
//	g := ctrl.Select(lax)          // sink.ShowLoading(lax)
//	ctrl.Complete(f.Run(ctx))      // dropped, sfo is no longer selected
//	ctrl.Complete(g.Run(ctx))      // sink.ShowLoaded(lax info)
//
// Nothing is actually cancelled when a selection changes. In-flight fetches
// run to completion and are discarded.
//
// Loop is a ready-made owner for headless use: it runs a controller on one
// goroutine and implements Selection. The terminal UI instead drives the
// controller from its Bubble Tea update function.
//
// Fetchers:
//   - SimulatedFetcher resolves after a fixed delay (one second by default)
//   - Client fetches from an airmap detail server over HTTP
//   - RetryFetcher retries another fetcher with exponential backoff
package detail

// Package tui implements airmap's interactive map screen.
//
// The screen is a Bubble Tea program with two panes: a filterable list of
// airport pins and a detail card. Choosing a pin selects it on a
// detail.Controller whose presentation sink is the card, so the card header
// switches to the new airport at once while its detail loads.
//
// # Fetches
//
// Every selection yields one tagged detail.Fetch. The model runs it as a
// tea.Cmd that returns a fetchDoneMsg, and Update hands the result to
// Controller.Complete. Results for an airport that is no longer selected,
// or that arrive after the card was hidden, are dropped there. Nothing else
// in the package guards against stale data.
//
// # Keys
//
//	↑/↓, j/k   move the cursor
//	enter      show detail for the pin under the cursor
//	esc, x     hide the card
//	r          reload the current airport
//	f          follow mode: the card tracks the cursor
//	/          filter pins
//	?          toggle full help
//	q          quit
//
// # Usage Example
//
//	catalog, _ := airport.Default()
//	if err := tui.Run(ctx, catalog, detail.NewSimulatedFetcher(time.Second)); err != nil {
//	    return err
//	}
package tui

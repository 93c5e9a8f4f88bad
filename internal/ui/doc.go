// Package ui renders the output of airmap's one-shot commands.
//
// Commands like `airmap list`, `airmap show` and `airmap scan` print once and
// exit; they build their output from the components here rather than
// running a Bubble Tea program:
//
//   - Header: banner with the command and its parameters (serve)
//   - Result: success, warning or failure box (scan, serve)
//   - RenderAirportTable: lipgloss table of the catalog (list)
//   - CardMarkdown / RenderMarkdown: glamour-rendered detail card (show)
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintAirports(catalog.All())
//
// When stdout is not a terminal the Printer falls back to the minimum width
// and glamour's "notty" style, so piped output stays free of escape codes.
//
// Logging is controlled via AIRMAP_LOG_LEVEL; when unset, zap is silent and
// only the rendered output is printed.
package ui

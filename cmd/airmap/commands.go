package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/detail"
	"github.com/muurk/airmap/internal/discovery"
	"github.com/muurk/airmap/internal/tui"
	"github.com/muurk/airmap/internal/ui"
)

// runCmd opens the interactive map
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive airport map",
	Long: `Open the interactive airport map.

Choose a pin with enter to load its detail card. Press f to let the card
follow the cursor, r to reload, esc to hide the card and q to quit.

While the map is open, log output (see --log-level) goes to airmap.log
unless AIRMAP_LOG_FILE names another file.`,
	Example: `  # Simulated detail with the default one second delay
  airmap

  # Fetch detail from a server found on the local network
  airmap run --fetch http

  # Fetch from a specific server
  airmap run --server http://192.168.1.20:8080`,
	RunE: runMap,
}

func init() {
	addFetchFlags(runCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	source, err := fetcherFor(cmd)
	if err != nil {
		return err
	}

	return tui.Run(cmd.Context(), catalog, source.fetcher)
}

// Output formats for list
const (
	formatTable = "table"
	formatJSON  = "json"
)

var listFormat string

// listCmd prints the airport catalog
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the airports on the map",
	Example: `  airmap list
  airmap list --format json
  airmap list --data ./my-airports.json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", formatTable, "Output format (table, json)")
}

func runList(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	switch listFormat {
	case formatTable:
		ui.NewPrinter(cmd.OutOrStdout()).PrintAirports(catalog.All())
		return nil
	case formatJSON:
		data, err := json.MarshalIndent(catalog.All(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	default:
		return fmt.Errorf("unknown format %q (use %s or %s)", listFormat, formatTable, formatJSON)
	}
}

// showCmd loads one detail card and prints it
var showCmd = &cobra.Command{
	Use:   "show CODE",
	Short: "Load and print the detail card for one airport",
	Long: `Load the detail card for one airport and print it.

Detail is loaded the same way the map loads it, so --fetch and --server
apply here too.`,
	Example: `  airmap show SFO
  airmap show lax --server http://192.168.1.20:8080`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	addFetchFlags(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	subject, ok := catalog.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown airport code %q", strings.ToUpper(args[0]))
	}

	source, err := fetcherFor(cmd)
	if err != nil {
		return err
	}

	sink := &printSink{printer: ui.NewPrinter(cmd.OutOrStdout()), status: cmd.ErrOrStderr()}
	ctrl := detail.NewController(source.fetcher, sink)

	f := ctrl.Select(subject)
	ctrl.Complete(f.Run(cmd.Context()))

	return sink.err
}

// printSink prints the card once it settles
type printSink struct {
	printer *ui.Printer
	status  io.Writer

	subject airport.Airport
	err     error
}

func (s *printSink) ShowLoading(subject airport.Airport) {
	s.subject = subject
	_, _ = fmt.Fprintf(s.status, "Loading %s...\n", subject.Code)
}

func (s *printSink) ShowLoaded(info airport.Info) {
	s.printer.PrintCard(s.subject, info)
}

func (s *printSink) ShowEmpty() {}

func (s *printSink) ShowFailed(subject airport.Airport, err error) {
	s.printer.PrintFailedCard(subject, detail.ShortMessage(err))
	if hint := failureHint(subject.Code, err); hint != "" {
		_, _ = fmt.Fprintf(s.status, "Hint: %s\n", hint)
	}
	s.err = fmt.Errorf("failed to load detail for %s: %w", subject.Code, err)
}

// failureHint suggests a next step for a failed fetch, or "" if there is none
func failureHint(code string, err error) string {
	switch {
	case detail.IsNetworkError(err):
		return "run 'airmap scan' to find detail servers on this network"
	case detail.IsNotFound(err):
		return fmt.Sprintf("the server's airport list has no %s; compare it with 'airmap list'", code)
	case detail.IsHTTPError(err):
		return "the detail server reported an error; check its log"
	default:
		return ""
	}
}

var scanTimeout = discovery.DefaultScanTimeout

// scanCmd lists detail servers on the local network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find airmap detail servers on the local network",
	Long: `Find airmap detail servers using mDNS/DNS-SD.

Servers started with 'airmap serve' advertise themselves as _airmap._tcp
services. Pass a server's URL to --server to fetch detail from it.`,
	Example: `  airmap scan
  airmap scan --timeout 10s`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to listen for servers (default from config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := cfg.Discovery.Timeout
	if cmd.Flags().Changed("timeout") {
		timeout = scanTimeout
	}
	if timeout <= 0 {
		return errors.New("--timeout must be positive")
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Scanning for airmap servers (timeout: %s)...\n", timeout)

	servers, err := (&discovery.Scanner{Timeout: timeout}).Scan(cmd.Context())
	if err != nil {
		p.PrintResult(ui.NewFailureResult("Scan failed", err,
			"Multicast must be enabled on this network interface",
			"Firewalls must allow mDNS (UDP port 5353)",
		))
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		p.PrintResult(ui.NewWarningResult("No airmap servers found",
			"Start one with 'airmap serve' on this network",
			"Try a longer --timeout on busy networks",
		))
		return nil
	}

	result := ui.NewSuccessResult(fmt.Sprintf("Found %d server(s)", len(servers)))
	for _, srv := range servers {
		value := srv.BaseURL()
		if v := srv.GetMetadata("version"); v != "" {
			value += "  (" + v + ")"
		}
		result.AddDetail(srv.Instance, value)
	}
	p.PrintResult(result)
	return nil
}

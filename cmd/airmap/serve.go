package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/config"
	"github.com/muurk/airmap/internal/discovery"
	"github.com/muurk/airmap/internal/logging"
	"github.com/muurk/airmap/internal/server"
	"github.com/muurk/airmap/internal/ui"
	"github.com/muurk/airmap/internal/version"
)

// Serve flags
var (
	serveHost        string
	servePort        int
	serveLatency     = config.Default().Server.Latency
	serveInstance    string
	serveNoAdvertise bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve airport detail over HTTP and WebSocket",
	Long: `Start the airmap detail server.

The server answers detail lookups for the map's http fetch mode and drives
remote detail cards over a WebSocket feed at /ws. Detail resolves after a
configurable latency. Unless --no-advertise is given, the server announces
itself on the local network so 'airmap scan' and 'airmap run --fetch http'
can find it.`,
	Example: `  # Listen on the configured address (default 0.0.0.0:8080)
  airmap serve

  # Faster answers on a custom port
  airmap serve --port 9000 --latency 200ms

  # Do not announce over mDNS
  airmap serve --no-advertise`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen address (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
	serveCmd.Flags().DurationVar(&serveLatency, "latency", serveLatency, "Delay before detail resolves (default from config)")
	serveCmd.Flags().StringVar(&serveInstance, "instance", "", "mDNS instance name (default: \"airmap on <hostname>\")")
	serveCmd.Flags().BoolVar(&serveNoAdvertise, "no-advertise", false, "Do not announce the server over mDNS")
}

// serveConfig applies the serve flags that were set over the config
func serveConfig(cmd *cobra.Command) (config.ServerConfig, error) {
	sc := cfg.Server
	flags := cmd.Flags()

	if flags.Changed("host") {
		sc.Host = serveHost
	}
	if flags.Changed("port") {
		sc.Port = servePort
	}
	if flags.Changed("latency") {
		sc.Latency = serveLatency
	}
	if flags.Changed("instance") {
		sc.Instance = serveInstance
	}
	if serveNoAdvertise {
		sc.Advertise = false
	}

	if sc.Port < 1 || sc.Port > 65535 {
		return sc, fmt.Errorf("--port must be between 1 and 65535, got %d", sc.Port)
	}
	if sc.Latency < 0 {
		return sc, fmt.Errorf("--latency must not be negative")
	}
	if sc.Instance == "" {
		sc.Instance = defaultInstance()
	}
	return sc, nil
}

func defaultInstance() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "airmap"
	}
	return "airmap on " + host
}

// checkServable rejects catalogs the info endpoint cannot address: it is
// keyed by code alone, so repeated codes would answer with the first entry.
func checkServable(catalog *airport.Catalog) error {
	if dups := catalog.DuplicateCodes(); len(dups) > 0 {
		return fmt.Errorf("cannot serve %s: duplicate airport codes %s",
			catalog.Source(), strings.Join(dups, ", "))
	}
	return nil
}

// advertiseText is the TXT record set a server announces
func advertiseText(catalog *airport.Catalog) []string {
	return []string{
		"version=" + version.Short(),
		"airports=" + strconv.Itoa(catalog.Len()),
		"path=/api",
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	if err := checkServable(catalog); err != nil {
		return err
	}

	sc, err := serveConfig(cmd)
	if err != nil {
		return err
	}

	advertise := "no"
	if sc.Advertise {
		advertise = sc.Instance
	}
	ui.NewPrinter(cmd.OutOrStdout()).PrintHeader("Detail server", "airmap serve",
		ui.Param{Key: "Listen", Value: sc.Address()},
		ui.Param{Key: "Airports", Value: fmt.Sprintf("%d (%s)", catalog.Len(), catalog.Source())},
		ui.Param{Key: "Latency", Value: sc.Latency.String()},
		ui.Param{Key: "Advertise", Value: advertise},
	)

	srv := server.New(&server.Config{
		Host:    sc.Host,
		Port:    sc.Port,
		Latency: sc.Latency,
	}, catalog)

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		return srv.Start(ctx)
	})

	if sc.Advertise {
		g.Go(func() error {
			return advertiseUntilDone(ctx, sc, catalog)
		})
	}

	return g.Wait()
}

// advertiseUntilDone keeps the mDNS registration alive until ctx ends. A
// failed registration is logged, not fatal: the server still works when
// addressed directly.
func advertiseUntilDone(ctx context.Context, sc config.ServerConfig, catalog *airport.Catalog) error {
	ad, err := discovery.Advertise(sc.Instance, sc.Port, advertiseText(catalog))
	if err != nil {
		logging.Warn("mDNS advertisement failed", zap.Error(err))
		return nil
	}
	defer ad.Shutdown()

	<-ctx.Done()
	return nil
}

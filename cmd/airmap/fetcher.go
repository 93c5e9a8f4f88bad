package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/airmap/internal/config"
	"github.com/muurk/airmap/internal/detail"
	"github.com/muurk/airmap/internal/discovery"
	"github.com/muurk/airmap/internal/logging"
)

// Fetch flags, shared by the commands that load detail
var (
	fetchMode   string
	fetchServer string
	fetchDelay  time.Duration
)

func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&fetchMode, "fetch", "", "Detail source: simulated or http (default from config)")
	cmd.Flags().StringVar(&fetchServer, "server", "", "Detail server URL for --fetch http (default: discover)")
	cmd.Flags().DurationVar(&fetchDelay, "delay", 0, "Simulated fetch delay (default from config)")
}

// fetchConfig applies the fetch flags that were set on cmd over the config
func fetchConfig(cmd *cobra.Command) (config.FetchConfig, error) {
	fc := cfg.Fetch
	flags := cmd.Flags()

	if flags.Changed("fetch") {
		fc.Mode = fetchMode
	}
	if flags.Changed("server") {
		fc.ServerURL = fetchServer
		if !flags.Changed("fetch") {
			fc.Mode = config.FetchModeHTTP
		}
	}
	if flags.Changed("delay") {
		fc.Delay = fetchDelay
	}

	switch fc.Mode {
	case config.FetchModeSimulated, config.FetchModeHTTP:
	default:
		return fc, fmt.Errorf("--fetch must be %q or %q, got %q", config.FetchModeSimulated, config.FetchModeHTTP, fc.Mode)
	}
	if fc.Delay < 0 {
		return fc, fmt.Errorf("--delay must not be negative")
	}
	return fc, nil
}

// finder looks up a detail server on the local network
type finder interface {
	Find(ctx context.Context, instance string) (*discovery.Server, error)
}

// fetcherSource describes where detail comes from, for status lines
type fetcherSource struct {
	fetcher detail.Fetcher
	desc    string
}

// buildFetcher turns the fetch settings into a detail.Fetcher. In http mode
// without a server URL it discovers one; if none answers and discovery is
// the only source, it falls back to the simulated fetch.
func buildFetcher(ctx context.Context, fc config.FetchConfig, dc config.DiscoveryConfig, scan finder) (fetcherSource, error) {
	if fc.Mode == config.FetchModeSimulated {
		return fetcherSource{
			fetcher: detail.NewSimulatedFetcher(fc.Delay),
			desc:    fmt.Sprintf("simulated (%s)", fc.Delay),
		}, nil
	}

	baseURL := fc.ServerURL
	if baseURL == "" {
		if !dc.Enabled {
			return fetcherSource{}, fmt.Errorf("http fetch needs a server URL when discovery is disabled (set fetch.server_url or --server)")
		}

		srv, err := scan.Find(ctx, "")
		if err != nil {
			logging.Warn("No detail server discovered, using simulated fetch",
				zap.Error(err),
				zap.Duration("delay", fc.Delay),
			)
			return fetcherSource{
				fetcher: detail.NewSimulatedFetcher(fc.Delay),
				desc:    "simulated (no server found)",
			}, nil
		}
		baseURL = srv.BaseURL()
		logging.Info("Using discovered detail server",
			zap.String("instance", srv.Instance),
			zap.String("url", baseURL),
		)
	}

	client := detail.NewClient(baseURL)
	client.SetTimeout(fc.Timeout)

	return fetcherSource{
		fetcher: detail.NewRetryFetcher(client, fc.Retries),
		desc:    client.BaseURL,
	}, nil
}

// fetcherFor resolves the fetch flags on cmd into a fetcher
func fetcherFor(cmd *cobra.Command) (fetcherSource, error) {
	fc, err := fetchConfig(cmd)
	if err != nil {
		return fetcherSource{}, err
	}
	scanner := &discovery.Scanner{Timeout: cfg.Discovery.Timeout}
	return buildFetcher(cmd.Context(), fc, cfg.Discovery, scanner)
}

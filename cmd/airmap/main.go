// Airmap is a terminal airport map with asynchronously loaded detail cards.
//
// Running without arguments opens the interactive map. The same binary can
// serve airport detail over HTTP (and advertise it on the local network) so
// that other maps can fetch from it.
//
// Usage:
//
//	airmap [command] [flags]
//
// See 'airmap --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/config"
	"github.com/muurk/airmap/internal/logging"
	"github.com/muurk/airmap/internal/version"
)

// defaultMapLogFile receives log output while the interactive map owns
// the terminal
const defaultMapLogFile = "airmap.log"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	dataFile   string
	configPath string
	logLevel   string
)

// cfg is loaded before any command runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "airmap",
	Short: "Terminal airport map with live detail cards",
	Long: `A terminal airport map.

Pick an airport pin and its detail card loads in the background. Move on
before it arrives and the late answer is thrown away, so the card always
belongs to the pin you are looking at.

If no command is specified, the interactive map opens.`,
	Version:           version.Short(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPostRun: func(*cobra.Command, []string) {
		logging.Sync()
	},
	RunE: runMap,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentPreRunE = setup

	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "Airport JSON file (default: bundled list)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/airmap/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")

	addFetchFlags(rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the config file and starts logging. Commands that take over
// the terminal log to a file instead of stdout.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dataFile != "" {
		loaded.DataFile = dataFile
	}
	cfg = loaded

	logFile := os.Getenv(logging.LogFileEnvVar)
	if logFile == "" && ownsTerminal(cmd) {
		logFile = defaultMapLogFile
	}
	return logging.InitializeWithOutput(logLevel, logFile)
}

// ownsTerminal reports whether cmd opens the interactive map
func ownsTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "run"
}

// loadCatalog loads the configured airport file, or the bundled one
func loadCatalog() (*airport.Catalog, error) {
	catalog, err := airport.LoadOrDefault(cfg.DataFile)
	if err != nil {
		return nil, err
	}
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("no airports in %s", catalog.Source())
	}
	return catalog, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "airmap %s\n", version.Full())
	},
}

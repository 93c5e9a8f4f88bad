package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/config"
	"github.com/muurk/airmap/internal/detail"
	"github.com/muurk/airmap/internal/discovery"
	"github.com/muurk/airmap/internal/logging"
	"github.com/muurk/airmap/internal/server"
)

// resetFlags undoes the previous Execute: cobra keeps parsed values and
// Changed marks on the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeWithConfig(t, filepath.Join(t.TempDir(), "config.yaml"), args...)
}

func executeWithConfig(t *testing.T, configFile string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(logging.LogLevelEnvVar, "")
	t.Setenv(logging.LogFileEnvVar, "")
	t.Setenv("AIRMAP_MD_STYLE", "")

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	rootCmd.SetArgs(append([]string{"--config", configFile}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "airmap "))
	assert.Contains(t, out, "commit:")
}

func TestListCommand(t *testing.T) {
	out, _, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SFO")
	assert.Contains(t, out, "LAX")

	out, _, err = execute(t, "list", "--format", "json")
	require.NoError(t, err)
	var airports []airport.Airport
	require.NoError(t, json.Unmarshal([]byte(out), &airports))
	assert.Len(t, airports, 20)

	_, _, err = execute(t, "list", "--format", "yaml")
	assert.Error(t, err)
}

func TestListCommand_BadDataFile(t *testing.T) {
	_, _, err := execute(t, "list", "--data", filepath.Join(t.TempDir(), "nope.json"))
	var loadErr *airport.LoadError
	assert.True(t, errors.As(err, &loadErr), "got %v", err)
}

func TestShowCommand_Simulated(t *testing.T) {
	out, status, err := execute(t, "show", "sfo", "--delay", "0s")
	require.NoError(t, err)
	assert.Contains(t, status, "Loading SFO")
	assert.Contains(t, out, "San Francisco International Airport")
	assert.Contains(t, out, "United States")
}

func TestShowCommand_UnknownCode(t *testing.T) {
	_, _, err := execute(t, "show", "xxx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"XXX"`)
}

func TestShowCommand_AgainstServer(t *testing.T) {
	catalog, err := airport.Default()
	require.NoError(t, err)
	ts := httptest.NewServer(server.New(&server.Config{}, catalog).Handler())
	defer ts.Close()

	out, _, err := execute(t, "show", "LAX", "--server", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Los Angeles International Airport")
}

func TestShowCommand_ServerFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	out, status, err := execute(t, "show", "SFO", "--server", ts.URL)
	require.Error(t, err)
	assert.True(t, detail.IsNotFound(err))
	assert.Contains(t, out, "No detail available for SFO")
	assert.Contains(t, status, "Hint: the server's airport list has no SFO")
}

type fakeFinder struct {
	srv *discovery.Server
	err error
}

func (f fakeFinder) Find(context.Context, string) (*discovery.Server, error) {
	return f.srv, f.err
}

func TestBuildFetcher(t *testing.T) {
	discovered := &discovery.Server{Instance: "airmap on studio", IP: "192.168.1.20", Port: 8080}
	on := config.DiscoveryConfig{Enabled: true, Timeout: time.Second}
	off := config.DiscoveryConfig{Enabled: false, Timeout: time.Second}

	tests := []struct {
		name     string
		fetch    config.FetchConfig
		disc     config.DiscoveryConfig
		finder   finder
		wantErr  bool
		wantDesc string
		wantType any
	}{
		{
			name:     "simulated",
			fetch:    config.FetchConfig{Mode: config.FetchModeSimulated, Delay: time.Second},
			wantDesc: "simulated (1s)",
			wantType: &detail.SimulatedFetcher{},
		},
		{
			name:     "http with url",
			fetch:    config.FetchConfig{Mode: config.FetchModeHTTP, ServerURL: "http://example.test:8080/", Timeout: time.Second},
			disc:     off,
			wantDesc: "http://example.test:8080",
			wantType: &detail.RetryFetcher{},
		},
		{
			name:    "http without url or discovery",
			fetch:   config.FetchConfig{Mode: config.FetchModeHTTP, Timeout: time.Second},
			disc:    off,
			wantErr: true,
		},
		{
			name:     "http discovers server",
			fetch:    config.FetchConfig{Mode: config.FetchModeHTTP, Timeout: time.Second},
			disc:     on,
			finder:   fakeFinder{srv: discovered},
			wantDesc: "http://192.168.1.20:8080",
			wantType: &detail.RetryFetcher{},
		},
		{
			name:     "http falls back when nothing answers",
			fetch:    config.FetchConfig{Mode: config.FetchModeHTTP, Delay: time.Second, Timeout: time.Second},
			disc:     on,
			finder:   fakeFinder{err: discovery.ErrNotFound},
			wantDesc: "simulated (no server found)",
			wantType: &detail.SimulatedFetcher{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := buildFetcher(context.Background(), tt.fetch, tt.disc, tt.finder)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDesc, src.desc)
			assert.IsType(t, tt.wantType, src.fetcher)
		})
	}
}

func TestFetchConfig_Flags(t *testing.T) {
	cfg = config.Default()

	cmd := &cobra.Command{Use: "test"}
	addFetchFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--server", "http://10.0.0.5:8080", "--delay", "250ms"}))

	fc, err := fetchConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, config.FetchModeHTTP, fc.Mode, "--server implies http")
	assert.Equal(t, "http://10.0.0.5:8080", fc.ServerURL)
	assert.Equal(t, 250*time.Millisecond, fc.Delay)
	assert.Equal(t, cfg.Fetch.Timeout, fc.Timeout)

	cmd = &cobra.Command{Use: "test"}
	addFetchFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--fetch", "carrier-pigeon"}))
	_, err = fetchConfig(cmd)
	assert.Error(t, err)
}

func TestServeConfig_Flags(t *testing.T) {
	cfg = config.Default()

	cmd := &cobra.Command{Use: "serve"}
	cmd.Flags().AddFlagSet(serveCmd.Flags())
	resetFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "9000", "--latency", "200ms", "--no-advertise"}))

	sc, err := serveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", sc.Host)
	assert.Equal(t, 9000, sc.Port)
	assert.Equal(t, 200*time.Millisecond, sc.Latency)
	assert.False(t, sc.Advertise)
	assert.NotEmpty(t, sc.Instance)

	resetFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "70000"}))
	_, err = serveConfig(cmd)
	assert.Error(t, err)
	resetFlags(cmd)
}

func TestAdvertiseText(t *testing.T) {
	catalog := airport.NewCatalog([]airport.Airport{{Code: "SFO"}, {Code: "LAX"}})
	txt := advertiseText(catalog)
	assert.Contains(t, txt, "airports=2")
	assert.Contains(t, txt, "path=/api")
}

func TestOwnsTerminal(t *testing.T) {
	assert.True(t, ownsTerminal(rootCmd))
	assert.True(t, ownsTerminal(runCmd))
	assert.False(t, ownsTerminal(listCmd))
	assert.False(t, ownsTerminal(serveCmd))
	assert.False(t, ownsTerminal(configShowCmd))
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, _, err := executeWithConfig(t, path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written")

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)

	_, _, err = executeWithConfig(t, path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, _, err = executeWithConfig(t, path, "config", "init", "--force")
	require.NoError(t, err)

	out, _, err = executeWithConfig(t, path, "config", "show", "--data", "./mine.json")
	require.NoError(t, err)
	assert.Contains(t, out, "mode: simulated")
	assert.Contains(t, out, "data_file: ./mine.json")
}

func TestServeCommand_RejectsDuplicateCodes(t *testing.T) {
	data := filepath.Join(t.TempDir(), "airports.json")
	require.NoError(t, os.WriteFile(data, []byte(`[
		{"code":"SFO","lat":"37.6","lon":"-122.4","name":"San Francisco International Airport"},
		{"code":"sfo","lat":"37.6","lon":"-122.4","name":"Another SFO"}
	]`), 0600))

	_, _, err := execute(t, "serve", "--data", data, "--no-advertise", "--port", "18080")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate airport codes SFO")

	catalog, err := airport.Default()
	require.NoError(t, err)
	assert.NoError(t, checkServable(catalog))
}

func TestFailureHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"network", &detail.FetchError{Type: detail.ErrTypeConnectionRefused, Code: "SFO"}, "airmap scan"},
		{"not found", detail.NewHTTPError(http.StatusNotFound, "SFO"), "has no SFO"},
		{"server error", detail.NewHTTPError(http.StatusInternalServerError, "SFO"), "check its log"},
		{"parse", detail.NewParseError("bad body", "SFO", nil), ""},
		{"other", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := failureHint("SFO", tt.err)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}

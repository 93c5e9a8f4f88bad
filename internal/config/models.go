package config

import (
	"fmt"
	"net/url"
	"time"
)

// CurrentVersion is the only config file version this build understands
const CurrentVersion = 1

const (
	// FetchModeSimulated resolves detail locally after a fixed delay
	FetchModeSimulated = "simulated"
	// FetchModeHTTP fetches detail from an airmap detail server
	FetchModeHTTP = "http"
)

// Config represents the entire user configuration file.
type Config struct {
	Version   int             `yaml:"version"`
	DataFile  string          `yaml:"data_file,omitempty"` // Airport JSON file; empty means the bundled list
	Fetch     FetchConfig     `yaml:"fetch"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Server    ServerConfig    `yaml:"server"`
}

// FetchConfig selects and tunes the detail fetch service used by the map.
type FetchConfig struct {
	Mode      string        `yaml:"mode"`                 // "simulated" or "http"
	Delay     time.Duration `yaml:"delay"`                // Simulated fetch delay
	ServerURL string        `yaml:"server_url,omitempty"` // Detail server for http mode; empty means discover
	Timeout   time.Duration `yaml:"timeout"`              // Per-request timeout in http mode
	Retries   int           `yaml:"retries"`              // Retries after the first attempt in http mode
}

// DiscoveryConfig controls mDNS lookup of detail servers.
type DiscoveryConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures `airmap serve`.
type ServerConfig struct {
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	Latency   time.Duration `yaml:"latency"`            // Artificial delay on the info endpoint
	Advertise bool          `yaml:"advertise"`          // Register over mDNS
	Instance  string        `yaml:"instance,omitempty"` // mDNS instance name; empty means hostname
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Fetch: FetchConfig{
			Mode:    FetchModeSimulated,
			Delay:   1 * time.Second,
			Timeout: 5 * time.Second,
			Retries: 2,
		},
		Discovery: DiscoveryConfig{
			Enabled: true,
			Timeout: 3 * time.Second,
		},
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			Latency:   1 * time.Second,
			Advertise: true,
		},
	}
}

// Validate checks the values a loaded file may have set.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}

	switch c.Fetch.Mode {
	case FetchModeSimulated, FetchModeHTTP:
	default:
		return fmt.Errorf("fetch.mode must be %q or %q, got %q", FetchModeSimulated, FetchModeHTTP, c.Fetch.Mode)
	}

	if c.Fetch.Delay < 0 {
		return fmt.Errorf("fetch.delay must not be negative")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("fetch.retries must not be negative")
	}
	if c.Fetch.ServerURL != "" {
		u, err := url.Parse(c.Fetch.ServerURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("fetch.server_url %q is not an absolute URL", c.Fetch.ServerURL)
		}
	}

	if c.Discovery.Timeout <= 0 {
		return fmt.Errorf("discovery.timeout must be positive")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Latency < 0 {
		return fmt.Errorf("server.latency must not be negative")
	}

	return nil
}

// Address returns the host:port the detail server listens on
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Package config provides user configuration for airmap.
//
// Configuration is a small versioned YAML file. Every key is optional; values
// missing from the file fall back to Default(), and a missing file is the same
// as an empty one.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/airmap/config.yaml or $HOME/.config/airmap/config.yaml
//   - macOS: $HOME/.config/airmap/config.yaml
//   - Windows: %LOCALAPPDATA%\airmap\config.yaml
//
// The --config flag overrides the location.
//
// # Example
//
//	version: 1
//	data_file: /srv/airports.json
//	fetch:
//	  mode: http
//	  server_url: http://10.0.0.5:8080
//	  timeout: 3s
//	  retries: 2
//	server:
//	  port: 8080
//	  latency: 500ms
//
// Durations use Go syntax ("250ms", "1s", "2m").
package config

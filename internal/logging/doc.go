// Package logging provides structured logging for airmap.
//
// This package wraps a global zap logger with convenience functions for the
// events the map cares about: selections, detail fetches, stale results and
// detail server traffic.
//
// # Log Levels
//
//   - Debug: stale result drops, fetch timings, feed frames
//   - Info: selections, connections, server lifecycle
//   - Warn: failed fetches, retries
//   - Error: startup failures
//
// # Configuration
//
// Logging is silent by default. Set a level explicitly or via the
// AIRMAP_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The interactive map owns the terminal, so when logging is enabled there it
// writes to AIRMAP_LOG_FILE (or airmap.log) instead of stdout.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging

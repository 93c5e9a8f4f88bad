package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Server is an airmap detail server found on the local network
type Server struct {
	// Instance is the advertised instance name (e.g., "airmap on studio")
	Instance string

	// Host is the mDNS hostname (e.g., "studio.local.")
	Host string

	// IP is the preferred address, IPv4 when one was announced
	IP string

	// Port is the HTTP port of the detail API
	Port int

	// Metadata holds the TXT records, e.g. "version=v0.3.0", "airports=20"
	Metadata map[string]string

	// DiscoveredAt is when the server answered the browse
	DiscoveredAt time.Time
}

// String returns a human-readable description of the server
func (s *Server) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, strings.TrimSuffix(s.Host, "."), net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
}

// BaseURL returns the URL a detail.Client should be pointed at
func (s *Server) BaseURL() string {
	return "http://" + net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// GetMetadata returns a TXT value, or "" if the key was not announced
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}

// parseText splits TXT records of the form "key=value". A bare key maps to
// the empty string.
func parseText(text []string) map[string]string {
	metadata := make(map[string]string, len(text))
	for _, txt := range text {
		key, value, _ := strings.Cut(txt, "=")
		if key == "" {
			continue
		}
		metadata[key] = value
	}
	return metadata
}

package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/airmap/internal/logging"
)

const (
	// ServiceType is the DNS-SD service type airmap detail servers advertise
	ServiceType = "_airmap._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is how long a scan listens for answers
	DefaultScanTimeout = 3 * time.Second
)

// ErrNotFound is returned by Find when no server answered in time.
var ErrNotFound = errors.New("no airmap server found on the local network")

// browseFunc matches zeroconf.Resolver.Browse. The entries channel is
// closed by the browser once ctx is done.
type browseFunc func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error

// Scanner browses the local network for detail servers
type Scanner struct {
	// Timeout bounds a single scan
	Timeout time.Duration

	browse browseFunc
}

// NewScanner creates a scanner with the default timeout
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

func (s *Scanner) browser() (browseFunc, error) {
	if s.browse != nil {
		return s.browse, nil
	}
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}
	return resolver.Browse, nil
}

// Scan listens for the scanner's timeout (or until ctx ends) and returns
// every server that answered, in the order they were seen.
func (s *Scanner) Scan(ctx context.Context) ([]*Server, error) {
	var servers []*Server
	err := s.run(ctx, func(srv *Server) bool {
		servers = append(servers, srv)
		return true
	})
	if err != nil {
		return nil, err
	}
	return servers, nil
}

// Find returns the first server that answers. An empty instance accepts
// any server.
func (s *Scanner) Find(ctx context.Context, instance string) (*Server, error) {
	var found *Server
	err := s.run(ctx, func(srv *Server) bool {
		if instance != "" && srv.Instance != instance {
			return true
		}
		found = srv
		return false
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		if instance != "" {
			return nil, fmt.Errorf("%w: instance %q", ErrNotFound, instance)
		}
		return nil, ErrNotFound
	}
	return found, nil
}

// run browses until the timeout, ctx, or visit returning false. visit is
// called from a single goroutine and run only returns after that goroutine
// has finished.
func (s *Scanner) run(ctx context.Context, visit func(*Server) bool) error {
	browse, err := s.browser()
	if err != nil {
		return err
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})

	go func() {
		defer close(done)
		stopped := false
		// Keep draining after a stop so the browser never blocks on send.
		for entry := range entries {
			if stopped {
				continue
			}
			srv := parseServiceEntry(entry)
			if srv == nil {
				continue
			}
			logging.Debug("Discovered airmap server",
				zap.String("instance", srv.Instance),
				zap.String("addr", srv.BaseURL()),
			)
			if !visit(srv) {
				stopped = true
				cancel()
			}
		}
	}()

	if err := browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		cancel()
		<-done
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-done
	return nil
}

// parseServiceEntry converts a service entry to a Server. Returns nil when
// the entry carries no usable address or port.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry == nil || entry.Port <= 0 {
		return nil
	}

	// Prefer IPv4
	var ip string
	for _, addr := range entry.AddrIPv4 {
		if addr != nil {
			ip = addr.String()
			break
		}
	}
	if ip == "" {
		for _, addr := range entry.AddrIPv6 {
			if addr != nil {
				ip = addr.String()
				break
			}
		}
	}
	if ip == "" {
		return nil
	}

	return &Server{
		Instance:     entry.Instance,
		Host:         entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Metadata:     parseText(entry.Text),
		DiscoveredAt: time.Now(),
	}
}

// Advertisement is a running mDNS registration
type Advertisement struct {
	Instance string
	Port     int

	server *zeroconf.Server
}

// Advertise announces a detail server on every multicast interface. txt
// entries are "key=value" pairs. Call Shutdown to withdraw it.
func Advertise(instance string, port int, txt []string) (*Advertisement, error) {
	if instance == "" {
		return nil, errors.New("advertise: instance name is required")
	}
	if port <= 0 {
		return nil, fmt.Errorf("advertise: invalid port %d", port)
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising airmap server",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)

	return &Advertisement{Instance: instance, Port: port, server: server}, nil
}

// Shutdown sends goodbye packets and stops answering queries
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	a.server = nil
	logging.Debug("Stopped advertising airmap server", zap.String("instance", a.Instance))
}

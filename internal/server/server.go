package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/detail"
	"github.com/muurk/airmap/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Host    string
	Port    int
	Latency time.Duration // Delay before the info endpoint and feed fetches resolve
}

// Server is the airmap detail server: a small JSON API over the airport
// catalog plus the /ws selection feed.
type Server struct {
	config  *Config
	catalog *airport.Catalog
	fetcher detail.Fetcher
	router  chi.Router

	mu       sync.Mutex
	listener net.Listener
	sessions map[*session]struct{}
	wg       sync.WaitGroup
}

// New creates a new Server instance. Feed sessions resolve detail with a
// simulated fetcher using the configured latency.
func New(config *Config, catalog *airport.Catalog) *Server {
	s := &Server{
		config:   config,
		catalog:  catalog,
		fetcher:  detail.NewSimulatedFetcher(config.Latency),
		sessions: make(map[*session]struct{}),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving the API and the feed
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the address the server is listening on, or "" before Start
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Detail server listening",
		zap.String("addr", listener.Addr().String()),
		zap.Int("airports", s.catalog.Len()),
		zap.Duration("latency", s.config.Latency),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		return s.shutdown(httpServer)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("detail server failed: %w", err)
	}
}

func (s *Server) shutdown(httpServer *http.Server) error {
	logging.Info("Shutting down detail server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := httpServer.Shutdown(ctx)

	// Hijacked feed connections are not closed by Shutdown
	s.mu.Lock()
	for sess := range s.sessions {
		sess.close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All feed sessions closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to shut down detail server: %w", err)
	}
	return nil
}

func (s *Server) track(sess *session) {
	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
	s.wg.Add(1)
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess)
	s.mu.Unlock()
	s.wg.Done()
}

// ActiveSessions returns the number of open feed connections
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

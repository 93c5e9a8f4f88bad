package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/logging"
	"github.com/muurk/airmap/internal/version"
)

const apiTimeout = 60 * time.Second

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger,
		middleware.Recoverer,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(apiTimeout))
		r.Get("/health", s.handleHealth)
		r.Get("/airports", s.handleListAirports)
		r.Get("/airports/{code}", s.handleGetAirport)
		r.Get("/airports/{code}/info", s.handleGetInfo)
	})

	// No timeout here: feed connections are long-lived.
	r.Get("/ws", s.handleFeed)

	return r
}

// requestLogger logs every request through the package logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			// hijacked by the feed upgrade
			status = http.StatusSwitchingProtocols
		}
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, status, time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Airports int    `json:"airports"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Version:  version.Short(),
		Airports: s.catalog.Len(),
		Sessions: s.ActiveSessions(),
	})
}

func (s *Server) handleListAirports(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.All())
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (airport.Airport, bool) {
	code := chi.URLParam(r, "code")
	a, ok := s.catalog.Lookup(code)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown airport "+code)
	}
	return a, ok
}

func (s *Server) handleGetAirport(w http.ResponseWriter, r *http.Request) {
	if a, ok := s.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, a)
	}
}

// handleGetInfo resolves detail after the configured latency. A client that
// gives up early is not answered.
func (s *Server) handleGetInfo(w http.ResponseWriter, r *http.Request) {
	a, ok := s.lookup(w, r)
	if !ok {
		return
	}

	info, err := s.fetcher.Fetch(r.Context(), a)
	if err != nil {
		// request cancelled or timed out
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// internal/httpserver/server.go
//
// HTTP server wiring for the gumballz vocabulary API.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Diagnostics: "/", "/health", "/metrics".
//   - Vocabulary endpoints: /levels, /topics, /lesson/{level}/{topic...}, /stats.
//   - Dashboard: /dashboard (HTML).
//   - Admin: POST /admin/refresh (bearer JWT, only when a secret is configured).
//
// Notes:
//   - Every vocabulary route is also mounted under its legacy /api/... path.
//   - CORS is open (any origin, GET/OPTIONS); OPTIONS answers 200 with an empty body.
//   - Handlers never fetch directly; they read a snapshot from store.Reader.

package httpserver

import (
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gumballz/assets"
	"github.com/robalobadob/gumballz/internal/store"
)

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	HandlerTimeout time.Duration  // per-request bound; default 10s
	Location       *time.Location // lastUpdated display zone; default UTC
	SampleSize     int            // words shown per topic on the dashboard; default 3
	AdminSecret    string         // enables /admin/refresh when set
}

// Server bundles router, cache and rendering dependencies.
type Server struct {
	r         *chi.Mux
	cache     store.Reader
	opts      Options
	dashboard *template.Template
}

// New constructs a Server, installs middleware, and registers routes.
func New(cache store.Reader, opts Options) (*Server, error) {
	if opts.HandlerTimeout <= 0 {
		opts.HandlerTimeout = 10 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = 3
	}
	tmpl, err := assets.DashboardTemplate()
	if err != nil {
		return nil, err
	}

	s := &Server{r: chi.NewRouter(), cache: cache, opts: opts, dashboard: tmpl}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog(log.Logger)...)           // zerolog request logger + access line
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.HandlerTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(openCORS)                           // any origin, GET/OPTIONS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"gumballz","endpoints":["/levels","/topics?level=","/lesson/{level}/{topic}","/stats","/dashboard","/health","/metrics"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Handle("/metrics", promhttp.Handler())

	// --- vocabulary ---
	s.mountVocab(s.r)

	// --- dashboard ---
	s.r.Get("/dashboard", s.handleDashboard)

	// --- admin ---
	if opts.AdminSecret != "" {
		s.r.With(requireAdmin(opts.AdminSecret)).Post("/admin/refresh", s.handleAdminRefresh)
	}

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "not_found: " + r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Success: false, Message: "method_not_allowed"})
	})

	return s, nil
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// ServeHTTP lets the Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

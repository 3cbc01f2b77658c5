// Package server provides the HTTP server and routing for qubitlab.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/qubitlab/qubitlab/internal/config"
	"github.com/qubitlab/qubitlab/internal/events"
	circuithandlers "github.com/qubitlab/qubitlab/internal/modules/circuit/handlers"
	"github.com/qubitlab/qubitlab/internal/modules/evolution"
	evolutionhandlers "github.com/qubitlab/qubitlab/internal/modules/evolution/handlers"
	"github.com/qubitlab/qubitlab/internal/modules/experiments"
	experimenthandlers "github.com/qubitlab/qubitlab/internal/modules/experiments/handlers"
)

// Config holds server configuration
type Config struct {
	Log            zerolog.Logger
	Config         *config.Config
	Port           int
	DevMode        bool
	EventBus       *events.Bus
	SessionManager *evolution.Manager
	RunRepo        *experiments.Repository // nil when history is disabled
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            Config
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cfg:            cfg,
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.SessionManager),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// SSE stream first, so it never inherits response buffering.
		eventsStream := NewEventsStreamHandler(s.cfg.EventBus, s.log)
		r.Get("/events/stream", eventsStream.ServeHTTP)

		r.Get("/system/status", s.systemHandlers.HandleStatus)

		experimenthandlers.NewHandler(s.cfg.RunRepo, s.cfg.EventBus, s.cfg.Log).RegisterRoutes(r)
		evolutionhandlers.NewHandler(s.cfg.SessionManager, s.cfg.EventBus, s.cfg.Log).RegisterRoutes(r)
		circuithandlers.NewHandler(s.cfg.Log).RegisterRoutes(r)
	})
}

// handleHealth is the liveness probe; it touches no module state.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// loggingMiddleware logs each request with its outcome and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

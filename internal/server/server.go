// Package server hosts the doc-chat HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/osaleh99/doc-chat/internal/answer"
	"github.com/osaleh99/doc-chat/internal/corpus"
	"github.com/osaleh99/doc-chat/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port            int
	AllowAll        bool          // allow all CORS origins (dev mode)
	SessionTTL      time.Duration // zero disables session expiry
	SweepInterval   time.Duration // how often stale sessions are checked
	ShutdownTimeout time.Duration
}

// Server is the doc-chat HTTP server.
type Server struct {
	cfg        Config
	manager    *corpus.Manager
	engine     *answer.Engine
	router     chi.Router
	httpServer *http.Server
	log        zerolog.Logger
	sweepStop  chan struct{}
	stopOnce   sync.Once
}

// New creates a server with all dependencies wired in.
func New(cfg Config, manager *corpus.Manager, engine *answer.Engine, logger zerolog.Logger) *Server {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 15 * time.Minute
	}
	s := &Server{
		cfg:       cfg,
		manager:   manager,
		engine:    engine,
		log:       logger,
		sweepStop: make(chan struct{}),
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Every API request carries a session cookie.
	r.Use(session.Middleware)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	corpus.RegisterRoutes(r, s.manager)
	answer.RegisterRoutes(r, s.engine)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port. It blocks until the
// listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if s.cfg.SessionTTL > 0 {
		go s.runSweeper()
	}

	s.log.Info().Str("addr", addr).Msg("docchat server listening")
	return s.httpServer.ListenAndServe()
}

// runSweeper periodically evicts sessions idle longer than SessionTTL.
func (s *Server) runSweeper() {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.sweepStop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			evicted, err := s.manager.Sweep(ctx, s.cfg.SessionTTL)
			cancel()
			if err != nil {
				s.log.Warn().Err(err).Msg("session sweep finished with errors")
			}
			if evicted > 0 {
				s.log.Info().Int("sessions", evicted).Msg("evicted expired sessions")
			}
		}
	}
}

// Shutdown gracefully shuts down the server. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.sweepStop) })
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

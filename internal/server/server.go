// Package server exposes the aggregated feed over HTTP: a JSON article list,
// an RSS syndication feed with deep links, a streamed bilingual detail
// summary, and health endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tahofeed/internal/config"
	"tahofeed/internal/feed"
	"tahofeed/internal/logger"
	"tahofeed/internal/summarize"
)

// Server is the HTTP front of the feed service.
type Server struct {
	router       *chi.Mux
	httpServer   *http.Server
	svc          *feed.Service
	streamer     *summarize.Streamer
	cfg          config.Server
	syndicationN int
	log          *slog.Logger
}

// New creates the HTTP server around a feed service. The streamer serves the
// detail summary endpoint; built without a credential it reports the missing
// capability per request instead of failing startup.
func New(svc *feed.Service, streamer *summarize.Streamer, cfg config.Server, syndicationN int) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		svc:          svc,
		streamer:     streamer,
		cfg:          cfg,
		syndicationN: syndicationN,
		log:          logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	if s.cfg.CORS.Enabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/status", s.handleStatus)
	s.router.Get("/api/feed", s.handleFeed)
	s.router.Get("/api/rss", s.handleRSS)
	s.router.Get("/api/articles/{slug}/summary", s.handleArticleSummary)
}

// Start runs the server until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", "error", err.Error())
	}
}

func (s *Server) respondError(w http.ResponseWriter, message string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	s.respondJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   message,
		"details": details,
	})
}

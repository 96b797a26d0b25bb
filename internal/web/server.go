// Package web serves the read-only status surface: health, the download
// queue and cache sizes, and a websocket stream of queue changes.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ytmusicbot/internal/cache"
	"ytmusicbot/internal/logger"
	"ytmusicbot/internal/queue"
)

// Server is the HTTP status server.
type Server struct {
	ctx       context.Context
	admission *queue.Admission
	results   *cache.ResultCache
	metadata  *cache.MetadataStore
	artifacts *cache.ArtifactCache
	logger    *logger.Logger
}

// Deps are the components the status surface reports on.
type Deps struct {
	Admission *queue.Admission
	Results   *cache.ResultCache
	Metadata  *cache.MetadataStore
	Artifacts *cache.ArtifactCache
	Logger    *logger.Logger
}

// NewServer returns a Server whose websocket streams end when ctx is done.
func NewServer(ctx context.Context, d Deps) *Server {
	return &Server{
		ctx:       ctx,
		admission: d.Admission,
		results:   d.Results,
		metadata:  d.Metadata,
		artifacts: d.Artifacts,
		logger:    d.Logger,
	}
}

// Router returns the handler serving every status route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Get("/queue", s.handleQueue)
		r.Get("/stats", s.handleStats)
	})
	r.Get("/ws", s.handleWebSocket)

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Status server listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Debug("Status server stopped")
	return nil
}

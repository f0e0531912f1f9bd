// Package server exposes the layout engine and document store over HTTP.
//
// # Endpoints
//
//	POST   /v1/layout           Run a layout pass over a posted document
//	GET    /v1/documents        List stored document IDs
//	GET    /v1/documents/{id}   Fetch a document
//	PUT    /v1/documents/{id}   Store a document (body is the document JSON)
//	DELETE /v1/documents/{id}   Delete a document
//	GET    /healthz             Liveness probe with build info
//
// The layout endpoint is stateless: it repairs and lays out whatever document
// the request carries and returns the scene alongside the possibly repaired
// document. Persistence is a separate concern handled by the documents
// resource.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/seqline/pkg/buildinfo"
	"github.com/matzehuels/seqline/pkg/store"
	"github.com/matzehuels/seqline/pkg/theme"
)

// Default server timeouts.
const (
	DefaultReadTimeout     = time.Minute
	DefaultWriteTimeout    = time.Minute
	DefaultIdleTimeout     = time.Hour
	DefaultShutdownTimeout = 10 * time.Second

	// maxBodyBytes caps request bodies; a diagram document is small.
	maxBodyBytes = 1 << 20
)

// Config configures the HTTP server.
type Config struct {
	// Addr is the listen address (host:port).
	Addr string

	// Store backs the documents resource. Required.
	Store store.Store

	// Theme used for layout passes. Nil means theme.Default.
	Theme *theme.Theme

	// Logger for request and lifecycle logging. Nil means log.Default.
	Logger *log.Logger
}

// Server serves the layout and document API.
type Server struct {
	addr   string
	store  store.Store
	theme  *theme.Theme
	logger *log.Logger
}

// New creates a server from the given config.
func New(cfg Config) *Server {
	th := cfg.Theme
	if th == nil {
		th = theme.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		addr:   cfg.Addr,
		store:  cfg.Store,
		theme:  th,
		logger: logger,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Get("/{id}", s.handleGetDocument)
			r.Put("/{id}", s.handlePutDocument)
			r.Delete("/{id}", s.handleDeleteDocument)
		})
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully within DefaultShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      http.MaxBytesHandler(s.Router(), maxBodyBytes),
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe() }()
	s.logger.Info("server listening", "addr", s.addr, "version", buildinfo.Version)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

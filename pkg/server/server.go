// Package server exposes the schema catalogue and the figure pipeline over
// HTTP.
//
// # Routes
//
//	GET  /healthz                 health check
//	GET  /metrics                 Prometheus metrics (when a collector is set)
//	GET  /api/charts              chart constructors
//	GET  /api/schema              validators, filtered by ?parent=
//	GET  /api/schema/{path}       one validator
//	GET  /api/schema-graph        catalogue graph (?root=, ?format=svg|dot)
//	POST /api/validate            {"path": ..., "value": ...}
//	POST /api/figures             build a figure from an inline spec
//	GET  /api/figures/{id}        a stored figure as JSON
//	GET  /figures/{id}            a stored figure as an HTML page
//
// Errors are JSON {"code", "message"} bodies; the status follows the error
// code.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/plotcraft/pkg/observability"
	"github.com/matzehuels/plotcraft/pkg/observability/metrics"
	"github.com/matzehuels/plotcraft/pkg/pipeline"
	"github.com/matzehuels/plotcraft/pkg/schema"
)

// RequestIDHeader carries the request ID on requests and responses.
const RequestIDHeader = "X-Request-ID"

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	registry *schema.Registry
	metrics  *metrics.Collector
	logger   *log.Logger

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a server. A nil runner gets a cache-less one; a nil collector
// disables /metrics.
func New(cfg Config, runner *pipeline.Runner, collector *metrics.Collector, logger *log.Logger) *Server {
	ApplyDefaults(&cfg)
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	registry := runner.Registry
	if registry == nil {
		registry = schema.Default()
	}
	return &Server{
		cfg:      cfg,
		runner:   runner,
		registry: registry,
		metrics:  collector,
		logger:   logger,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/charts", s.handleCharts)
		r.Get("/schema", s.handleSchemaList)
		r.Get("/schema/{path}", s.handleSchemaGet)
		r.Get("/schema-graph", s.handleSchemaGraph)
		r.Post("/validate", s.handleValidate)
		r.Post("/figures", s.handleFigureCreate)
		r.Get("/figures/{id}", s.handleFigureJSON)
	})
	r.Get("/figures/{id}", s.handleFigurePage)
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.cfg.Addr, "cache", s.cfg.Cache.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

type ctxKey struct{}

// RequestID returns the request ID stored in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestID keeps a client-supplied X-Request-ID or assigns a new UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", RequestID(r.Context()))
	})
}

// instrument reports requests to the HTTP hooks, labelled by route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

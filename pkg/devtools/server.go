package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// Source is what the inspector reads. *hooks.Scheduler implements it.
type Source interface {
	Snapshots() []hooks.InstanceSnapshot
	Snapshot(id uint64) (hooks.InstanceSnapshot, bool)
	OnBatch(fn func(hooks.BatchReport)) (remove func())
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer serves gatherer on /metrics. Without it the route is not
// registered.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server is the HTTP inspector for one scheduler.
type Server struct {
	source   Source
	gatherer prometheus.Gatherer
	logger   *slog.Logger

	router  chi.Router
	stream  *BatchStream
	observe func()
}

// New creates an inspector over src and subscribes to its batches.
func New(src Source, opts ...Option) *Server {
	s := &Server{
		source: src,
		logger: slog.Default().With("component", "devtools"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.stream = NewBatchStream(s.logger)
	s.observe = src.OnBatch(s.stream.Publish)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/instances", s.handleInstances)
	r.Get("/instances/{id}", s.handleInstance)
	r.Get("/batches", s.stream.HandleWebSocket)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Stream returns the batch report stream.
func (s *Server) Stream() *BatchStream {
	return s.stream
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devtools listening", "address", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
		return nil
	}
}

// Close unsubscribes from the scheduler and disconnects stream clients.
func (s *Server) Close() {
	if s.observe != nil {
		s.observe()
		s.observe = nil
	}
	s.stream.Close()
}

func (s *Server) handleInstances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.source.Snapshots())
}

func (s *Server) handleInstance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid instance id"})
		return
	}
	snap, ok := s.source.Snapshot(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "instance not found"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

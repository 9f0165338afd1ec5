// Package server exposes the project builder over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/VoxDroid/sunprep/internal/catalog"
	"github.com/VoxDroid/sunprep/internal/devices"
	"github.com/VoxDroid/sunprep/internal/logging"
	"github.com/VoxDroid/sunprep/internal/project"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Options are the filesystem locations the server works with.
type Options struct {
	ToolsDir  string
	OutputDir string
	StaticDir string
}

// Server routes HTTP requests to the catalog, project store and device provider.
type Server struct {
	opts    Options
	catalog *catalog.Catalog
	store   *project.Store
	devices *devices.Provider
	log     *slog.Logger

	mux    *http.ServeMux
	nextID atomic.Uint64
}

// New wires a Server. log may be nil.
func New(opts Options, cat *catalog.Catalog, store *project.Store, dev *devices.Provider, log *slog.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	s := &Server{opts: opts, catalog: cat, store: store, devices: dev, log: log, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/actions", s.handleActions)
	s.mux.HandleFunc("GET /api/actions/{name}", s.handleAction)
	s.mux.HandleFunc("GET /api/categories", s.handleCategories)

	s.mux.HandleFunc("GET /api/displays", s.handleDisplays)
	s.mux.HandleFunc("GET /api/audio-devices", s.handleAudioDevices)
	s.mux.HandleFunc("GET /api/variable-options/{name}", s.handleVariableOptions)
	s.mux.HandleFunc("GET /api/runtime-tokens", s.handleRuntimeTokens)
	s.mux.HandleFunc("GET /api/tools/status", s.handleToolsStatus)

	s.mux.HandleFunc("GET /api/project", s.handleGetProject)
	s.mux.HandleFunc("POST /api/project", s.handleReplaceProject)
	s.mux.HandleFunc("POST /api/project/reset", s.handleResetProject)

	s.mux.HandleFunc("POST /api/scripts/{type}", s.handleAppend)
	s.mux.HandleFunc("DELETE /api/scripts/{type}/{index}", s.handleRemove)
	s.mux.HandleFunc("POST /api/scripts/{type}/{index}/move", s.handleMove)

	s.mux.HandleFunc("POST /api/variables", s.handleSetVariable)
	s.mux.HandleFunc("DELETE /api/variables/{name}", s.handleRemoveVariable)

	s.mux.HandleFunc("GET /api/export/preview", s.handlePreview)
	s.mux.HandleFunc("GET /api/export/bat/{type}", s.handleDownloadBat)
	s.mux.HandleFunc("POST /api/export/bat", s.handleWriteBat)
	s.mux.HandleFunc("GET /api/export/json", s.handleDownloadJSON)
	s.mux.HandleFunc("POST /api/export/json", s.handleWriteJSON)
	s.mux.HandleFunc("GET /api/export/schema", s.handleSchema)

	if s.opts.StaticDir != "" {
		s.mux.Handle("GET /", http.FileServer(http.Dir(s.opts.StaticDir)))
	}
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := s.log.With("request_id", s.nextID.Add(1), "method", r.Method, "path", r.URL.Path)
		r = r.WithContext(logging.WithLogger(r.Context(), log))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.mux.ServeHTTP(rec, r)
		log.Debug("request served", "status", rec.status, "duration", time.Since(start))
	})
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return logging.WithLogger(context.Background(), s.log) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "address", "http://"+ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error("server shutdown failed", "error", err)
		return err
	}
	s.log.Debug("server shut down gracefully")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

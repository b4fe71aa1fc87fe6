// Package server exposes the pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness probe
//	POST /v1/split         one split of the posted instance
//	POST /v1/decompose     recursive decomposition of the posted instance
//	POST /v1/graph         intersection graph drawing (DOT or SVG)
//	GET  /v1/runs          most recent archived runs
//	GET  /v1/runs/{id}     one archived run
//
// Request bodies carry the instance in its JSON document format next to the
// pipeline options. Errors are reported as {"error":{"code","message"}} with
// the HTTP status derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/blocksets/pkg/buildinfo"
	"github.com/matzehuels/blocksets/pkg/errors"
	"github.com/matzehuels/blocksets/pkg/observability"
	"github.com/matzehuels/blocksets/pkg/pipeline"
)

// Defaults for the HTTP server.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 2 * time.Minute
	DefaultMaxBodyBytes   = 16 << 20
	shutdownTimeout       = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr           string        `toml:"addr"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxBodyBytes   int64         `toml:"max_body_bytes"`
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Server serves the pipeline API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
	router chi.Router
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, logger: logger, cfg: cfg}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.RequestSize(s.cfg.MaxBodyBytes))
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
			buildinfo.Info
		}{"ok", buildinfo.Get()})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/split", s.handleRun(pipeline.ModeSplit))
		r.Post("/decompose", s.handleRun(pipeline.ModeDecompose))
		r.Post("/graph", s.handleGraph)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe logs every request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, duration)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", duration)
	})
}

// classify maps context failures onto error codes so they get a proper status.
func classify(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "request timed out")
	case stderrors.Is(err, context.Canceled):
		return errors.Wrap(errors.ErrCodeTimeout, err, "request canceled")
	}
	return err
}

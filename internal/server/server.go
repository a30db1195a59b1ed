// Package server exposes the chart pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness, build info and optional counters
//	POST /v1/steps                dataset → running-total steps
//	POST /v1/layout               dataset → chart geometry
//	POST /v1/render?format=svg    dataset → rendered chart (svg, png, pdf, json)
//
// Every POST body is a dataset with optional pipeline options:
//
//	{
//	  "label": "Earnings",
//	  "x": "month",
//	  "y": "earnings",
//	  "data": [{"month": "Jan", "earnings": 23}, {"month": "Feb", "earnings": -14}],
//	  "options": {"width": 640, "style": "outline"}
//	}
//
// Errors are JSON objects carrying a code from pkg/errors and the request ID.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/waterfall/pkg/observability"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// Defaults for [New].
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 5 << 20

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server serves the chart API.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	timeout  time.Duration
	maxBody  int64
	stats    *observability.Stats
	router   chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaults sets the options every request starts from, typically
// derived from the config file. Request options override them field by field.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// WithTimeout bounds the handling time of each request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxBodyBytes limits request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithStats reports the counters of stats on /healthz. The caller installs
// stats as hooks; the server only reads it.
func WithStats(stats *observability.Stats) Option {
	return func(s *Server) { s.stats = stats }
}

// New creates a server running charts through runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		logger:  runner.Logger,
		timeout: DefaultTimeout,
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/steps", s.handleSteps)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// baseOptions returns a deep copy of the configured defaults, so request
// decoding never writes through to shared state.
func (s *Server) baseOptions() pipeline.Options {
	opts := s.defaults
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	if opts.Margins != nil {
		m := *opts.Margins
		opts.Margins = &m
	}
	if opts.Padding != nil {
		p := *opts.Padding
		opts.Padding = &p
	}
	if opts.Theme != nil {
		t := *opts.Theme
		opts.Theme = &t
	}
	opts.Formats = slices.Clone(opts.Formats)
	opts.Logger = s.logger
	return opts
}

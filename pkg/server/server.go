package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"

	"mercator-hq/vendorgate/pkg/config"
	"mercator-hq/vendorgate/pkg/server/middleware"
	"mercator-hq/vendorgate/pkg/supplier"
	"mercator-hq/vendorgate/pkg/telemetry/health"
	"mercator-hq/vendorgate/pkg/telemetry/metrics"
	"mercator-hq/vendorgate/pkg/telemetry/tracing"
)

// Options carries the collaborators of a Server. Service is required; the
// rest may be left zero.
type Options struct {
	Service *supplier.Service
	Checker *health.Checker
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Logger  *slog.Logger
	Version health.VersionInfo

	// Paths default to the telemetry defaults when empty.
	MetricsPath   string
	LivenessPath  string
	ReadinessPath string
}

// Server is the vendorgate HTTP server.
type Server struct {
	config       *config.ServerConfig
	opts         Options
	logger       *slog.Logger
	handler      http.Handler
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server. The route table is built once here.
func NewServer(cfg *config.ServerConfig, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Checker == nil {
		opts.Checker = health.New(config.DefaultHealthCheckTimeout)
	}
	if opts.Tracer == nil {
		opts.Tracer = tracing.Noop()
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = config.DefaultMetricsPath
	}
	if opts.LivenessPath == "" {
		opts.LivenessPath = config.DefaultLivenessPath
	}
	if opts.ReadinessPath == "" {
		opts.ReadinessPath = config.DefaultReadinessPath
	}

	s := &Server{
		config: cfg,
		opts:   opts,
		logger: opts.Logger.With("component", "server"),
	}
	s.handler = s.setupRoutes()
	return s
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves on the configured address and blocks until shutdown. HTTPS
// is used when TLS is enabled.
func (s *Server) Start(ctx context.Context) error {
	tlsConfig, err := NewTLSConfig(&s.config.TLS)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.ListenAddress, err)
	}
	if tlsConfig != nil {
		ln = tls.NewListener(ln, tlsConfig)
		s.logger.Info("TLS enabled",
			"min_version", s.config.TLS.MinVersion,
			"client_auth", s.config.TLS.ClientCAFile != "",
		)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln and blocks until shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		_ = ln.Close()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		running := s.isRunning
		s.mu.Unlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx := ctx
		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware(s.opts.Logger))
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware(s.opts.Logger))
	r.Use(tracing.HTTPMiddleware(s.opts.Tracer))
	r.Use(middleware.MetricsMiddleware(s.opts.Metrics))
	r.Use(middleware.CORSMiddleware(&s.config.CORS))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusNotFound, middleware.ErrorTypeNotFound,
			fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusMethodNotAllowed, middleware.ErrorTypeMethod,
			fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path))
	})

	h := &handlers{service: s.opts.Service, maxBody: s.config.MaxBodyBytes, logger: s.logger}
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyMiddleware(&s.config.Auth, s.opts.Logger))
		r.Use(middleware.RateLimitMiddleware(&s.config.RateLimit))
		r.Use(middleware.TimeoutMiddleware(s.config.RequestTimeout))
		r.Post("/validate-portal-fields", h.validatePortalFields)
		r.Post("/v1/suppliers/{supplierID}/validate", h.validateSupplier)
	})

	r.Get(s.opts.LivenessPath, s.opts.Checker.LivenessHandler())
	r.Get(s.opts.ReadinessPath, s.opts.Checker.ReadinessHandler())
	v := s.opts.Version
	r.Get("/version", health.VersionHandler(v.Version, v.Commit, v.BuildTime))
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, s.opts.MetricsPath, s.opts.Metrics.Handler())
	}

	return r
}

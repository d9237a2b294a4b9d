// Package web serves the admin console in a browser. It drives the same
// panels as the CLI, one controller per resource for the life of the
// server.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dolabb/dolabbctl/internal/console"
	"github.com/dolabb/dolabbctl/internal/dashboard"
	"github.com/dolabb/dolabbctl/internal/logging"
	"github.com/dolabb/dolabbctl/internal/session"
)

const (
	serviceName     = "dolabbctl-web"
	shutdownTimeout = 10 * time.Second
)

// Sessions is the session guard the console authenticates through.
// *session.Guard implements it.
type Sessions interface {
	Require() (*session.Credential, error)
	RequireAnonymous() error
	Login(ctx context.Context, email, password string) (*session.Credential, error)
	Logout(ctx context.Context) error
}

// Server is the local admin console.
type Server struct {
	echo             *echo.Echo
	addr             string
	sessions         Sessions
	panels           *console.Registry
	stats            dashboard.StatsSource
	gatherer         prometheus.Gatherer
	tracer           trace.TracerProvider
	logger           *slog.Logger
	dashboardTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGatherer sets the registry served at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithTracerProvider enables request spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracer = tp }
}

// WithDashboardTimeout bounds the dashboard's statistics load.
func WithDashboardTimeout(d time.Duration) Option {
	return func(s *Server) { s.dashboardTimeout = d }
}

// New builds the console bound to addr.
func New(addr string, sessions Sessions, panels *console.Registry, stats dashboard.StatsSource, opts ...Option) (*Server, error) {
	s := &Server{
		addr:             addr,
		sessions:         sessions,
		panels:           panels,
		stats:            stats,
		gatherer:         prometheus.DefaultGatherer,
		logger:           logging.Discard(),
		dashboardTimeout: dashboard.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = r
	e.HTTPErrorHandler = s.handleError

	e.Use(SecurityHeaders())
	if s.tracer != nil {
		e.Use(otelecho.Middleware(serviceName, otelecho.WithTracerProvider(s.tracer)))
	}
	e.Use(RequestLogger(s.logger))
	e.Use(middleware.Recover())
	e.Use(SameOrigin())

	e.GET("/healthz", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	e.GET("/login", s.loginForm)
	e.POST("/login", s.login)

	guard := RequireSession(sessions)
	e.POST("/logout", s.logout, guard)
	e.GET("/", s.dashboard, guard)
	e.GET("/r/:resource", s.list, guard)
	e.GET("/r/:resource/pdf", s.exportPDF, guard)
	e.GET("/r/:resource/:id", s.detail, guard)
	e.GET("/r/:resource/:id/confirm/:action", s.confirm, guard)
	e.POST("/r/:resource/:id/:action", s.act, guard)
	e.GET("/r/:resource/new/:action", s.collectionForm, guard)
	e.POST("/r/:resource/new/:action", s.collectionAct, guard)

	s.echo = e
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.InfoContext(ctx, "console listening", "addr", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("shutting down console")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

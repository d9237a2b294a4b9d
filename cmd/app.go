package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/console"
	"github.com/dolabb/dolabbctl/internal/controller"
	"github.com/dolabb/dolabbctl/internal/metrics"
	"github.com/dolabb/dolabbctl/internal/session"
	"github.com/dolabb/dolabbctl/internal/transport"
)

// app is everything one invocation talks to the backend through.
type app struct {
	api      *client.API
	guard    *session.Guard
	panels   *console.Registry
	metrics  *metrics.Recorder
	registry *prometheus.Registry
}

// newApp wires the transport, session guard and panels from cfg and
// restores any saved session.
func newApp(tp trace.TracerProvider) (*app, error) {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	holder := &session.Holder{}

	opts := []transport.Option{
		transport.WithTimeout(cfg.API.Timeout),
		transport.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		transport.WithTokenSource(holder),
		transport.WithLogger(logger),
		transport.WithMetrics(rec),
	}
	if tp != nil {
		opts = append(opts, transport.WithTracerProvider(tp))
	}
	tc, err := transport.New(cfg.API.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}
	api := client.New(tc)

	guard := session.NewGuard(holder,
		session.NewFileStore(cfg.Session.File, logger),
		api.Auth(),
		session.WithLogger(logger),
	)
	if err := guard.Restore(); err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	a := &app{api: api, guard: guard, metrics: rec, registry: reg}
	a.panels = console.NewRegistry(api, a.controllerOptions)
	return a, nil
}

// controllerOptions applies the api section and any per-resource override.
func (a *app) controllerOptions(resource string) []controller.Option {
	return []controller.Option{
		controller.WithResource(resource),
		controller.WithPageSize(cfg.PageSize(resource)),
		controller.WithListTimeout(cfg.ListTimeout(resource)),
		controller.WithLogger(logger),
		controller.WithMetrics(a.metrics),
	}
}

// authedApp wires the app and fails unless a live session is held.
func authedApp() (*app, error) {
	a, err := newApp(nil)
	if err != nil {
		return nil, err
	}
	if _, err := a.guard.Require(); err != nil {
		return nil, err
	}
	return a, nil
}

// panelFor returns the named panel from a signed-in app.
func panelFor(resource string) (*app, console.Panel, error) {
	a, err := authedApp()
	if err != nil {
		return nil, nil, err
	}
	p, ok := a.panels.Get(resource)
	if !ok {
		return nil, nil, flagError("unknown resource %q", resource)
	}
	return a, p, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

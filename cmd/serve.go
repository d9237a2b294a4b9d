package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dolabb/dolabbctl/internal/telemetry"
	"github.com/dolabb/dolabbctl/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web console",
	Long: `Serve the admin console in a browser. Sign in on the login page; the
session is shared with the CLI through session.file.

Prometheus metrics are served at /metrics. Set telemetry.otlp_endpoint to
export request traces.

Examples:
  dolabbctl serve
  dolabbctl serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (overrides web.addr)")
	serveCmd.Flags().Duration("dashboard-timeout", 0, "bound on a dashboard load (default 15s)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		ServiceName:    "dolabbctl-web",
		ServiceVersion: version,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	a, err := newApp(tp)
	if err != nil {
		return err
	}

	addr := cfg.Web.Addr
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}
	opts := []web.Option{
		web.WithLogger(logger),
		web.WithGatherer(a.registry),
		web.WithTracerProvider(tp),
	}
	if d, _ := cmd.Flags().GetDuration("dashboard-timeout"); d > 0 {
		opts = append(opts, web.WithDashboardTimeout(d))
	}
	srv, err := web.New(addr, a.guard, a.panels, a.api, opts...)
	if err != nil {
		return err
	}

	printer.Success("Console running at http://%s", addr)
	printer.Info("Press Ctrl+C to stop")
	return srv.Run(ctx)
}

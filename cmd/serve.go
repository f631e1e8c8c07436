package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxpilot/internal/schedule"
	"github.com/teemow/inboxpilot/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		metricsEnabled bool
		metricsAddr    string
		noBriefings    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the agent as a long-running service",
		Long: `Run the agent continuously. The fleet cycle fires on the configured
interval and per-user briefing jobs fire at each user's local briefing
time. A metrics server exposes /metrics, health probes, and /status on
a dedicated port.

The service shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				a.close(closeCtx)
			}()

			briefings := schedule.BriefingRunner(a.briefings)
			if noBriefings {
				briefings = nil
			}
			scheduler := schedule.New(a.fleet, briefings, a.directory, a.logger, a.cfg.Interval)
			if err := scheduler.Start(ctx); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			a.logger.Info("scheduler started",
				"interval", a.cfg.Interval.String(),
				"jobs", scheduler.Jobs(),
			)

			var metricsServer *server.MetricsServer
			if metricsEnabled && a.provider.Enabled() {
				addr := metricsAddr
				if addr == "" {
					addr = a.cfg.MetricsAddr
				}
				metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
					Addr:                    addr,
					Enabled:                 true,
					InstrumentationProvider: a.provider,
					Status:                  a.auditFile,
				})
				if err != nil {
					return fmt.Errorf("failed to create metrics server: %w", err)
				}
				go func() {
					if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.logger.Error("metrics server failed", "error", err)
					}
				}()
			}

			<-ctx.Done()
			a.logger.Info("shutdown signal received")

			// Let a running cycle finish before tearing anything down.
			cronDone := scheduler.Stop()
			select {
			case <-cronDone.Done():
			case <-time.After(server.DefaultShutdownTimeout):
				a.logger.Warn("scheduler jobs did not finish before timeout")
			}

			if metricsServer != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := metricsServer.Shutdown(shutdownCtx); err != nil {
					a.logger.Error("metrics server shutdown failed", "error", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&metricsEnabled, "metrics", true, "serve Prometheus metrics and health probes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "metrics server address (default from config)")
	cmd.Flags().BoolVar(&noBriefings, "no-briefings", false, "disable scheduled daily briefings")
	return cmd
}

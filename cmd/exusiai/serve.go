package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	httpAdapter "github.com/zojize/exusiai-bot/pkg/adapters/http"
	"github.com/zojize/exusiai-bot/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the recruitment service, exposing a JSON API and Prometheus metrics over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := observability.NewMetrics(reg)

		g, cfg, logger, closeFn, err := setup(cmd, metrics.Hooks())
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Watch {
			if err := g.Watch(ctx); err != nil {
				return err
			}
			logger.Info("Watching catalog for changes", "dir", cfg.DataDir)
		}

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpAdapter.NewHandler(g, httpAdapter.WithGatherer(reg), httpAdapter.WithLogger(logger)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting server", "address", srv.Addr, "dir", cfg.DataDir, "banner", g.Banner().Name)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return err
		case <-ctx.Done():
			logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "error", err)
				return errors.Join(err, srv.Close())
			}
			logger.Info("Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the catalog when its files change")
}

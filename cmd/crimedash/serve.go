package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"crimedash/internal/cli"
	apphttp "crimedash/internal/http"
	applog "crimedash/internal/log"
	"crimedash/internal/middleware/ratelimit"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			return runServe(cmd.Context(), a)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default from PORT, 8050)")
	return cmd
}

func runServe(ctx context.Context, a *app) error {
	logger := a.logger.With(applog.FieldOperation, applog.OpStartup)

	ds, err := cli.LoadDataset(ctx, a.cfg, a.logger.WithComponent(applog.ComponentDataset).With(applog.FieldOperation, applog.OpLoad).Logger)
	if err != nil {
		logger.Error("Failed to load dataset", applog.FieldError, err)
		return err
	}
	defaults, err := cli.LoadDefaults(a.cfg)
	if err != nil {
		logger.Error("Failed to load dashboard defaults", applog.FieldError, err)
		return err
	}

	opts := []apphttp.Option{
		apphttp.WithLogger(a.logger),
		apphttp.WithRateLimit(ratelimit.Config{RequestsPerMinute: a.cfg.RateLimitPerMin}),
	}
	if imp, ok, err := cli.LastImport(ctx, a.cfg); err != nil {
		logger.Warn("Reading last import failed", applog.FieldError, err)
	} else if ok {
		opts = append(opts, apphttp.WithLastImport(imp))
	}

	srv := apphttp.NewServer(":"+a.cfg.Port, ds, defaults, opts...)

	ctx, stop := cli.SignalContext(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting crimedash server",
			"port", a.cfg.Port,
			applog.FieldSource, ds.Source(),
			applog.FieldRows, ds.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("Server error", applog.FieldError, err, "port", a.cfg.Port)
		return err
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}

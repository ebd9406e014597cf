package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/svcdeck/internal/board"
	"github.com/hazz-dev/svcdeck/internal/dashboard"
	"github.com/hazz-dev/svcdeck/internal/logger"
	"github.com/hazz-dev/svcdeck/internal/server"
	"github.com/hazz-dev/svcdeck/internal/sweeper"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard and API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cat, err := loadCatalog(ctx, cfg, true, log)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	log.Info("catalog loaded",
		logger.Int("categories", cat.Len()),
		logger.Int("services", cat.ServiceCount()),
	)

	opts, err := sweepOptions(cfg)
	if err != nil {
		return err
	}

	b := board.New(cat)
	sw := sweeper.New(b, newProber(cfg), opts, cfg.Probe.Interval.Duration, log.With(logger.String("component", "sweeper")))

	api := server.New(b, sw, log.With(logger.String("component", "http")),
		server.WithAssets(dashboard.Handler()),
		server.WithThemes(dashboard.Themes()),
	)

	sw.Start(ctx)
	log.Info("sweeper started",
		logger.String("mode", string(opts.Mode)),
		logger.Duration("interval", cfg.Probe.Interval.Duration),
	)

	if err := api.ListenAndServe(ctx, cfg.Server.Address); err != nil {
		stop()
		sw.Wait()
		return fmt.Errorf("HTTP server: %w", err)
	}

	sw.Wait()
	log.Info("shutdown complete")
	return nil
}

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/svcdeck/internal/board"
	"github.com/hazz-dev/svcdeck/internal/logger"
	"github.com/hazz-dev/svcdeck/internal/tui"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Log lines would corrupt the terminal UI.
	cat, err := loadCatalog(ctx, cfg, false, logger.Nop())
	if err != nil {
		return err
	}
	opts, err := sweepOptions(cfg)
	if err != nil {
		return err
	}

	return tui.Run(ctx, board.New(cat), newProber(cfg), tui.Config{
		Sweep:    opts,
		Interval: cfg.Probe.Interval.Duration,
	})
}

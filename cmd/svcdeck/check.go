package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/svcdeck/internal/board"
	"github.com/hazz-dev/svcdeck/internal/catalog"
	"github.com/hazz-dev/svcdeck/internal/logger"
	"github.com/hazz-dev/svcdeck/internal/sweeper"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe every service once and print the results",
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cmd.Context(), cfg, false, logger.Nop())
	if err != nil {
		return err
	}
	opts, err := sweepOptions(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	return executeCheck(ctx, cmd, cat, newProber(cfg), opts)
}

func executeCheck(ctx context.Context, cmd *cobra.Command, cat *catalog.Catalog, p sweeper.Prober, opts sweeper.Options) error {
	return runChecks(ctx, cmd.OutOrStdout(), cat, p, opts)
}

func runChecks(ctx context.Context, out io.Writer, cat *catalog.Catalog, p sweeper.Prober, opts sweeper.Options) error {
	b := board.New(cat)
	opts.Mode = sweeper.ModeParallel
	tally := sweeper.Sweep(ctx, b, p, opts)

	if tally.Total == 0 {
		fmt.Fprintln(out, "No services in catalog.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tCATEGORY\tSTATUS\tRESPONSE\tURL\tERROR")
	for _, e := range b.Snapshot() {
		resp := "—"
		if e.ResponseMs > 0 {
			resp = (time.Duration(e.ResponseMs) * time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Name,
			e.Category,
			e.Status,
			resp,
			e.URL,
			e.Error,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d online, %d offline (%.0f%% health)\n", tally.Online, tally.Offline, tally.Health())

	if tally.Offline > 0 || tally.Unknown > 0 {
		return fmt.Errorf("%d of %d services unreachable", tally.Total-tally.Online, tally.Total)
	}
	return nil
}

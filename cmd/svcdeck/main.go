package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/svcdeck/internal/catalog"
	"github.com/hazz-dev/svcdeck/internal/config"
	"github.com/hazz-dev/svcdeck/internal/logger"
	"github.com/hazz-dev/svcdeck/internal/probe"
	"github.com/hazz-dev/svcdeck/internal/sweeper"
	"github.com/hazz-dev/svcdeck/internal/version"
)

const defaultConfigFile = "svcdeck.yml"

var (
	cfgFile     string
	catalogFile string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "svcdeck",
		Short:        "Homelab service dashboard with live reachability",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigFile, "config file path")
	root.PersistentFlags().StringVar(&catalogFile, "catalog", "", "catalog file path (overrides catalog.path)")

	root.AddCommand(versionCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(catalogCmd())
	root.AddCommand(tuiCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadConfig reads the config file. A missing file is only an error when
// --config was given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadCatalog resolves the catalog from --catalog, then catalog.path, then
// the embedded default. With await set, a missing file is polled for until it
// appears or ctx is cancelled; a cancelled wait yields an empty catalog.
func loadCatalog(ctx context.Context, cfg *config.Config, await bool, log logger.Logger) (*catalog.Catalog, error) {
	path := cfg.Catalog.Path
	if catalogFile != "" {
		path = catalogFile
	}
	if path == "" {
		return catalog.Default(), nil
	}

	loader := catalog.NewLoader(catalog.FileSource(path))
	if !await {
		c, err := loader.Load()
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		return c, nil
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Info("waiting for catalog", logger.String("path", path))
	}
	c, err := loader.Await(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Warn("stopped waiting for catalog", logger.String("path", path))
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return c, nil
}

func newProber(cfg *config.Config) *probe.Prober {
	return probe.New(probe.WithInsecureTLS(cfg.Probe.InsecureTLS))
}

func sweepOptions(cfg *config.Config) (sweeper.Options, error) {
	mode, err := sweeper.ParseMode(cfg.Probe.Mode)
	if err != nil {
		return sweeper.Options{}, err
	}
	return sweeper.Options{
		Mode:        mode,
		Concurrency: cfg.Probe.Concurrency,
		Timeout:     cfg.Probe.Timeout.Duration,
	}, nil
}

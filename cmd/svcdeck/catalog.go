package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/svcdeck/internal/board"
	"github.com/hazz-dev/svcdeck/internal/catalog"
	"github.com/hazz-dev/svcdeck/internal/logger"
)

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the service catalog with row indices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), cfg, false, logger.Nop())
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), cat)
			return nil
		},
	}
}

func printCatalog(out io.Writer, cat *catalog.Catalog) {
	rows := board.Flatten(cat)
	if len(rows) == 0 {
		fmt.Fprintln(out, "No services in catalog.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tCATEGORY\tSERVICE\tURL\tDESCRIPTION")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Index, r.Category, r.Name, r.URL, r.Desc)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d services in %d categories\n", len(rows), cat.Len())
}

package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"crimedash/internal/cli"
	applog "crimedash/internal/log"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configured dataset and report what was found",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := a.logger.WithComponent(applog.ComponentDataset).With(applog.FieldOperation, applog.OpValidate)

			ds, err := cli.LoadDataset(ctx, a.cfg, logger.Logger)
			if err != nil {
				logger.Error("Validation failed", applog.FieldError, err)
				return err
			}
			if _, err := cli.LoadDefaults(a.cfg); err != nil {
				return err
			}
			imp, imported, err := cli.LastImport(ctx, a.cfg)
			if err != nil {
				return err
			}

			lo, hi := ds.YearRange()
			stats := ds.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source:           %s\n", ds.Source())
			fmt.Fprintf(out, "rows:             %s\n", humanize.Comma(int64(ds.Len())))
			fmt.Fprintf(out, "units:            %d (%s)\n", len(ds.Units()), strings.Join(ds.Units(), ", "))
			fmt.Fprintf(out, "years:            %d-%d\n", lo, hi)
			fmt.Fprintf(out, "totals policy:    %s\n", a.cfg.TotalsPolicy)
			if stats.TotalMismatches > 0 {
				fmt.Fprintf(out, "total mismatches: %d (first at row %d)\n", stats.TotalMismatches, stats.FirstMismatchRow)
			} else {
				fmt.Fprintln(out, "total mismatches: 0")
			}
			if imported {
				fmt.Fprintf(out, "last import:      %s (%s rows at %s)\n",
					imp.Source, humanize.Comma(imp.RowCount), imp.ImportedAt)
			}
			return nil
		},
	}
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"crimedash/internal/cli"
	"crimedash/internal/dashboard"
	applog "crimedash/internal/log"
)

func newSummaryCmd(a *app) *cobra.Command {
	var (
		units    []string
		from, to int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the summary cards for a selection",
		Long: `summary prints the four summary cards. The most common crime is taken
over every category, so there is no category filter here.`,
		Example: `  crimedash summary
  crimedash summary --unit DMP --from 2022 --to 2022
  crimedash summary --unit DMP,CMP --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := cli.LoadDataset(cmd.Context(), a.cfg, a.logger.WithComponent(applog.ComponentDataset).With(applog.FieldOperation, applog.OpLoad).Logger)
			if err != nil {
				return err
			}
			defaults, err := cli.LoadDefaults(a.cfg)
			if err != nil {
				return err
			}

			sel := defaults.Selection()
			flags := cmd.Flags()
			if flags.Changed("unit") {
				sel.Units = units
			}
			if flags.Changed("from") {
				sel.YearFrom = from
			}
			if flags.Changed("to") {
				sel.YearTo = to
			}

			cards := dashboard.Summarize(ds, sel, defaults)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cards)
			}
			fmt.Fprintf(out, "Total Cases:        %s\n", cards.TotalCases)
			fmt.Fprintf(out, "Avg Monthly Cases:  %s\n", cards.AvgMonthly)
			fmt.Fprintf(out, "Most Common Crime:  %s\n", cards.PeakCrime)
			fmt.Fprintf(out, "Police Units:       %s\n", cards.Units)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&units, "unit", nil, "police units (repeatable or comma separated; empty selects none)")
	f.IntVar(&from, "from", 0, "first year (inclusive)")
	f.IntVar(&to, "to", 0, "last year (inclusive)")
	f.BoolVar(&asJSON, "json", false, "print the cards as JSON")
	return cmd
}

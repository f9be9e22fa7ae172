// Command crimedash serves the Bangladesh police crime statistics dashboard
// and offers a few offline helpers around the dataset.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"crimedash/internal/cli"
	"crimedash/internal/config"
	applog "crimedash/internal/log"
)

// app carries what PersistentPreRunE prepared for the subcommands.
type app struct {
	cfg    *config.Config
	logger *applog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "crimedash",
		Short: "Bangladesh crime statistics dashboard",
		Long: `crimedash loads the monthly police crime table (CSV file, S3 object,
Google Sheet or the local SQLite store) and serves an interactive dashboard
with summary cards and charts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.LoadEnvFile()
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			logger, err := cli.SetupLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newSummaryCmd(a),
		newImportCmd(a),
		newValidateCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

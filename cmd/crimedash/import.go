package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"crimedash/internal/cli"
	"crimedash/internal/dataset"
	applog "crimedash/internal/log"
	"crimedash/internal/source/csvfile"
)

func newImportCmd(a *app) *cobra.Command {
	var csvPath, dbPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a CSV file and store it in the SQLite database",
		Long: `import validates a crime CSV with the same rules the server uses and
replaces the contents of the SQLite store with it. Point DATASET_SOURCE=sqlite
at the database afterwards to serve from it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if dbPath == "" {
				dbPath = a.cfg.SQLiteDBPath
			}
			logger := a.logger.WithComponent(applog.ComponentStorage).With(applog.FieldOperation, applog.OpImport)

			src := csvfile.New(csvPath)
			ds, err := dataset.Load(ctx, src, dataset.Options{
				TotalsPolicy: dataset.TotalsPolicy(a.cfg.TotalsPolicy),
				Logger:       logger.Logger,
			})
			if err != nil {
				return err
			}

			repo, err := cli.InitSQLite(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.ImportRecords(ctx, src.Name(), ds.Records()); err != nil {
				logger.Error("Import failed", applog.FieldError, err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s rows from %s into %s\n",
				humanize.Comma(int64(ds.Len())), src.Name(), dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file to import")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default from SQLITE_DB_PATH)")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

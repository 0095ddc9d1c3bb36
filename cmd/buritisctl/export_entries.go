package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PHRJr/BuritisProject/internal/reports"
	"github.com/PHRJr/BuritisProject/pkg/metrics"
)

func newExportEntriesCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export-entries",
		Short: "Write the submitted entries report to a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logg, client, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			svc, err := reports.NewService(reports.NewRepository(client.DB()), cfg.Catalog.ExportDelimiter, metrics.New(nil), logg)
			if err != nil {
				return err
			}

			export, err := svc.ExportEntries(ctx)
			if err != nil {
				return err
			}

			if out == "-" {
				_, err = cmd.OutOrStdout().Write(export.Body)
				return err
			}
			if err := os.WriteFile(out, export.Body, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries written to %s\n", export.Rows, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", reports.ExportFilename, "output path, - for stdout")
	return cmd
}

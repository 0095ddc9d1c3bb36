package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PHRJr/BuritisProject/internal/catalog"
	"github.com/PHRJr/BuritisProject/pkg/metrics"
)

func newImportCatalogCmd() *cobra.Command {
	var (
		productsFile string
		networksFile string
		storesFile   string
	)

	cmd := &cobra.Command{
		Use:   "import-catalog",
		Short: "Replace the catalog from local CSV files",
		Long:  "Runs the same refresh as the admin upload: products, the network/product matrix and the optional network/store pairs.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			upload, err := readUpload(productsFile, networksFile, storesFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, logg, client, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			svc, err := catalog.NewService(catalog.NewRepository(client.DB()), client, cfg.Catalog, metrics.New(nil), logg)
			if err != nil {
				return err
			}

			summary, err := svc.Replace(ctx, upload)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
	cmd.Flags().StringVar(&productsFile, "produtos", "", "products CSV (required)")
	cmd.Flags().StringVar(&networksFile, "redes", "", "network/product matrix CSV (required)")
	cmd.Flags().StringVar(&storesFile, "lojas", "", "network/store pairs CSV")
	_ = cmd.MarkFlagRequired("produtos")
	_ = cmd.MarkFlagRequired("redes")
	return cmd
}

func readUpload(productsFile, networksFile, storesFile string) (catalog.Upload, error) {
	var upload catalog.Upload
	var err error
	if upload.Products, err = os.ReadFile(productsFile); err != nil {
		return upload, fmt.Errorf("reading %s: %w", productsFile, err)
	}
	if upload.NetworkProducts, err = os.ReadFile(networksFile); err != nil {
		return upload, fmt.Errorf("reading %s: %w", networksFile, err)
	}
	if storesFile != "" {
		if upload.NetworkStores, err = os.ReadFile(storesFile); err != nil {
			return upload, fmt.Errorf("reading %s: %w", storesFile, err)
		}
	}
	return upload, nil
}

package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/db"
	"github.com/PHRJr/BuritisProject/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "buritisctl",
		Short:        "Administrative tasks for the Buritis order-intake backend",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			_ = godotenv.Load()
		},
	}
	root.AddCommand(
		newHashPasswordCmd(),
		newCreateAdminCmd(),
		newImportCatalogCmd(),
		newExportEntriesCmd(),
	)
	return root
}

func newLogger(cfg *config.Config) *logger.Logger {
	opts := logger.Options{ServiceName: "buritisctl"}
	if cfg != nil {
		opts.Level = logger.ParseLevel(cfg.App.LogLevel)
		opts.WarnStack = cfg.App.LogWarnStack
	}
	return logger.New(opts)
}

// loadPasswordConfig reads only the argon2 parameters; hashing needs no database.
func loadPasswordConfig() (config.PasswordConfig, error) {
	var cfg config.PasswordConfig
	if err := envconfig.Process(config.EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing password config: %w", err)
	}
	return cfg, nil
}

// openDatabase loads the offline configuration and connects to the database.
func openDatabase(ctx context.Context) (*config.Config, *logger.Logger, *db.Client, error) {
	cfg, err := config.LoadOffline()
	if err != nil {
		return nil, nil, nil, err
	}
	logg := newLogger(cfg)
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return cfg, logg, client, nil
}

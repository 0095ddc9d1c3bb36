package migrate

import (
	"context"
	"fmt"

	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/db"
	"github.com/PHRJr/BuritisProject/pkg/logger"
)

// EnsureSchema applies the embedded migrations in dev when auto-migrate is
// enabled, then verifies the required tables in every environment.
func EnsureSchema(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || client == nil {
		return fmt.Errorf("config and db client are required")
	}

	if cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate {
		if err := autoRun(ctx, cfg, logg, client); err != nil {
			return err
		}
	}

	if err := VerifySchema(ctx, client.DB()); err != nil {
		return err
	}
	return nil
}

func autoRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	fsys, err := Source("")
	if err != nil {
		return err
	}
	runner, err := NewRunner(sqlDB, fsys)
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	applied, err := runner.Up(ctx)
	if err != nil {
		return err
	}
	for _, a := range applied {
		logg.Info(logg.WithFields(ctx, map[string]any{"version": a.Version, "duration_ms": a.Duration.Milliseconds()}), "migration applied")
	}
	logg.Info(logg.WithField(ctx, "applied", len(applied)), "schema up to date")
	return nil
}

package migrate

import (
	"context"
	"fmt"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/config"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/db"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
)

// Models lists every table the API persists, parents first.
func Models() []any {
	return []any{
		&models.User{},
		&models.Profile{},
		&models.Activity{},
	}
}

// PrepareSchema runs at API boot. SQLite is synced from Models every time.
// Postgres applies the embedded goose migrations only when running in dev with
// the auto-migrate flag set; other environments use cmd/migrate.
func PrepareSchema(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	switch {
	case client.IsSQLite():
		return syncModels(ctx, logg, client)
	case cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate:
		return applyEmbedded(logg.WithFields(ctx, map[string]any{"env": cfg.App.Env}), logg, client)
	default:
		return nil
	}
}

func syncModels(ctx context.Context, logg *logger.Logger, client *db.Client) error {
	logg.Info(ctx, "migrate.sqlite_sync")
	if err := client.AutoMigrate(ctx, Models()...); err != nil {
		return fmt.Errorf("sqlite automigrate: %w", err)
	}
	return nil
}

func applyEmbedded(ctx context.Context, logg *logger.Logger, client *db.Client) error {
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}
	logg.Info(ctx, "migrate.auto_up")
	if err := Run(ctx, sqlDB, "", "up"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	logg.Info(ctx, "migrate.auto_up_done")
	return nil
}

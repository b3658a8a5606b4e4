package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/wedsite-backend/pkg/config"
	"github.com/angelmondragon/wedsite-backend/pkg/db"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
)

// MaybeRunDev brings the schema up to date on boot in dev when the auto-migrate
// flag is set. SQLite is migrated from the models, Postgres through goose.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": client.Driver()})

	if client.Driver() == db.DriverSQLite {
		logg.Info(ctx, "running sqlite auto-migration (dev auto-run)")
		if err := client.AutoMigrate(ctx); err != nil {
			return fmt.Errorf("sqlite auto-migrate: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	runner, err := NewRunner(sqlDB, Migrations(), logg)
	if err != nil {
		return err
	}
	logg.Info(ctx, "running embedded goose migrations (dev auto-run)")
	if err := runner.Up(ctx); err != nil {
		return err
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}

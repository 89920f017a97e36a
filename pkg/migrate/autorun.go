package migrate

import (
	"context"
	"fmt"

	"github.com/balarco/balarco-backend/pkg/config"
	"github.com/balarco/balarco-backend/pkg/db"
	"github.com/balarco/balarco-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations when running in dev with
// AutoMigrate enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})
	logg.Info(ctx, "applying embedded migrations")

	results, err := Up(ctx, sqlDB, DialectFor(cfg.DB.Driver))
	if err != nil {
		return err
	}

	logg.Info(logg.WithField(ctx, "applied", len(results)), "migrations completed")
	return nil
}

package postgres

import (
	"context"
	"log/slog"

	"venuegate/config"
	"venuegate/internal/domain/lifecycle"
	"venuegate/internal/errors"
	"venuegate/internal/infra/metrics"
	"venuegate/internal/infra/persistence/model"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// migratedModels are created by AutoMigrate in debug environments. Production schemas are
// managed outside the service.
var migratedModels = []any{
	&model.VenueModel{},
	&model.EntryTokenModel{},
	&model.PresenceSessionModel{},
	&model.SecurityAuditModel{},
	&model.LocationSampleModel{},
	&model.UserDeviceModel{},
	&model.RateLimitWindowModel{},
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// New opens the PostgreSQL handle used by every repository in this package.
// Pool statistics are exported on the metrics registry when one is provided.
func New(params Params) (*gorm.DB, error) {
	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	db = db.Session(&gorm.Session{
		// Multi-step writes go through TransactionManager.Execute.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	if params.Metrics != nil {
		if err := params.Metrics.RegisterDBStats(sqlDB, "postgres"); err != nil {
			return nil, errors.Wrap(err, "failed to register PostgreSQL pool metrics")
		}
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}

			if params.Config.Env.Debug {
				params.Logger.Info("Migrating PostgreSQL schema", slog.Int("tables", len(migratedModels)))
				if err := db.WithContext(ctx).AutoMigrate(migratedModels...); err != nil {
					return errors.Wrap(err, "failed to migrate PostgreSQL schema")
				}
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return sqlDB.Close()
		},
	})

	return db, nil
}

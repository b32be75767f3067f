// Package persistence selects the store provider and exposes its repositories to Fx.
package persistence

import (
	"context"
	"log/slog"
	"time"

	"venuegate/config"
	"venuegate/internal/domain/constants"
	"venuegate/internal/domain/repository"
	"venuegate/internal/infra/firebase"
	"venuegate/internal/infra/metrics"
	"venuegate/internal/infra/persistence/firestore"
	"venuegate/internal/infra/persistence/memory"
	"venuegate/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params holds dependencies for the store provider, injected by Fx.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// Repositories are the repository implementations of the configured provider.
type Repositories struct {
	fx.Out

	TxManager     repository.TransactionManager
	VenueRepo     repository.VenueRepository
	TokenRepo     repository.TokenRepository
	PresenceRepo  repository.PresenceRepository
	AuditRepo     repository.AuditRepository
	SampleRepo    repository.LocationSampleRepository
	DeviceRepo    repository.DeviceRepository
	RateLimitRepo repository.RateLimitRepository
}

// NewRepositories opens the store selected by store.provider.
func NewRepositories(params Params) (Repositories, error) {
	cfg := params.Config
	logger := params.Logger

	switch cfg.Store.Provider {
	case constants.StoreProviderMemory:
		store := memory.NewStore()
		if cfg.Store.SeedFile != "" {
			loaded, err := store.LoadSeed(cfg.Store.SeedFile)
			if err != nil {
				return Repositories{}, err
			}
			logger.Info("Seeded memory store", slog.Int("venues", loaded))
		}
		logger.Warn("Using memory store, state is lost on restart and not shared between instances")

		startSweeper(params.Lc, newSweeper(store, cfg, logger))

		return Repositories{
			TxManager:     store,
			VenueRepo:     store,
			TokenRepo:     store,
			PresenceRepo:  store,
			AuditRepo:     store,
			SampleRepo:    store,
			DeviceRepo:    store,
			RateLimitRepo: store,
		}, nil

	case constants.StoreProviderPostgres:
		if cfg.Postgres == nil {
			return Repositories{}, errors.New("postgres configuration is required for postgres store")
		}
		db, err := postgres.New(postgres.Params{Lifecycle: params.Lc, Config: cfg, Logger: logger, Metrics: params.Metrics})
		if err != nil {
			return Repositories{}, err
		}
		logger.Info("Using postgres store")

		startSweeper(params.Lc, newSweeper(postgres.NewMaintenance(db), cfg, logger))

		return Repositories{
			TxManager:     postgres.NewTransactionManager(db),
			VenueRepo:     postgres.NewVenueRepository(db),
			TokenRepo:     postgres.NewTokenRepository(db),
			PresenceRepo:  postgres.NewPresenceRepository(db),
			AuditRepo:     postgres.NewAuditRepository(db),
			SampleRepo:    postgres.NewLocationSampleRepository(db),
			DeviceRepo:    postgres.NewDeviceRepository(db),
			RateLimitRepo: postgres.NewRateLimitRepository(db),
		}, nil

	case constants.StoreProviderFirestore:
		app, err := firebase.NewApp(params.Ctx, cfg, logger)
		if err != nil {
			return Repositories{}, err
		}
		client, err := firebase.NewFirestoreClient(params.Ctx, app)
		if err != nil {
			return Repositories{}, err
		}
		params.Lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return client.Close()
			},
		})
		logger.Info("Using firestore store, expiry relies on the expire_at TTL policy")

		store := firestore.NewStore(client)

		return Repositories{
			TxManager:     store,
			VenueRepo:     store,
			TokenRepo:     store,
			PresenceRepo:  store,
			AuditRepo:     store,
			SampleRepo:    store,
			DeviceRepo:    store,
			RateLimitRepo: store,
		}, nil

	default:
		return Repositories{}, errors.Errorf("unknown store provider: %s", cfg.Store.Provider)
	}
}

// Module provides the repositories of the configured store.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewRepositories),
)

// startSweeper runs the sweeper between OnStart and OnStop.
func startSweeper(lc fx.Lifecycle, s *sweeper) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				s.run(ctx)
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}

			return nil
		},
	})
}

// expiringStore deletes records past their lifetime.
type expiringStore interface {
	DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error)
	DeleteSamplesBefore(ctx context.Context, before time.Time) (int64, error)
	DeleteExpiredWindows(ctx context.Context, before time.Time) (int64, error)
}

const defaultSampleRetention = time.Hour

// sweeper purges expired tokens, stale samples and old rate limit windows on stores
// without native TTL.
type sweeper struct {
	store     expiringStore
	interval  time.Duration
	retention time.Duration
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func newSweeper(store expiringStore, cfg *config.Config, logger *slog.Logger) *sweeper {
	retention := cfg.Entry.SampleHistory.Retention
	if retention <= 0 {
		retention = defaultSampleRetention
	}

	return &sweeper{
		store:     store,
		interval:  cfg.Store.SweepInterval,
		retention: retention,
		timeout:   cfg.Store.Timeout,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *sweeper) run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one pass. Failures are logged and retried on the next tick.
func (s *sweeper) sweep(ctx context.Context) {
	now := s.now()

	passes := []struct {
		what   string
		before time.Time
		fn     func(ctx context.Context, before time.Time) (int64, error)
	}{
		{"entry tokens", now, s.store.DeleteExpiredTokens},
		{"location samples", now.Add(-s.retention), s.store.DeleteSamplesBefore},
		{"rate limit windows", now, s.store.DeleteExpiredWindows},
	}

	for _, pass := range passes {
		passCtx := ctx
		cancel := func() {}
		if s.timeout > 0 {
			passCtx, cancel = context.WithTimeout(ctx, s.timeout)
		}
		deleted, err := pass.fn(passCtx, pass.before)
		cancel()

		if err != nil {
			s.logger.Warn("Store sweep failed", slog.String("target", pass.what), slog.Any("error", err))

			continue
		}
		if deleted > 0 {
			s.logger.Debug("Store sweep removed records", slog.String("target", pass.what), slog.Int64("deleted", deleted))
		}
	}
}

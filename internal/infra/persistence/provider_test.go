package persistence

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"venuegate/config"
	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"
	"venuegate/internal/infra/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRepositories_Memory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Provider = "memory"
	cfg.Store.SweepInterval = time.Minute

	lc := fxtest.NewLifecycle(t)
	repos, err := NewRepositories(Params{Lc: lc, Ctx: context.Background(), Config: cfg, Logger: testLogger()})
	require.NoError(t, err)

	lc.RequireStart()
	defer lc.RequireStop()

	assert.NotNil(t, repos.TxManager)
	assert.NotNil(t, repos.RateLimitRepo)

	_, err = repos.VenueRepo.FindVenueByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrVenueNotFound)
}

func TestNewRepositories_UnknownProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Provider = "cassandra"

	_, err := NewRepositories(Params{Lc: fxtest.NewLifecycle(t), Ctx: context.Background(), Config: cfg, Logger: testLogger()})
	assert.ErrorContains(t, err, "unknown store provider")
}

func TestSweeper_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	store := memory.NewStore()

	require.NoError(t, store.CreateToken(ctx, &entity.EntryToken{Nonce: "old", ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, store.CreateToken(ctx, &entity.EntryToken{Nonce: "live", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, store.AppendSample(ctx, "u1", &entity.LocationSample{CapturedAt: now.Add(-2 * time.Hour)}, 5))
	require.NoError(t, store.AppendSample(ctx, "u1", &entity.LocationSample{CapturedAt: now.Add(-time.Minute)}, 5))

	cfg := &config.Config{}
	cfg.Store.SweepInterval = time.Minute
	s := newSweeper(store, cfg, testLogger())
	s.now = func() time.Time { return now }

	s.sweep(ctx)

	_, err := store.FindToken(ctx, "old")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	_, err = store.FindToken(ctx, "live")
	assert.NoError(t, err)

	latest, err := store.FindLatestSample(ctx, "u1", now.Add(-3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, now.Add(-time.Minute), latest.CapturedAt)

	removed, err := store.DeleteSamplesBefore(ctx, now.Add(-90*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, removed)
}

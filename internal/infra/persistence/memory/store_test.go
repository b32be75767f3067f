package memory

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumeToken_OnlyFirstWins(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateToken(ctx, &entity.EntryToken{Nonce: "n1", ExpiresAt: now.Add(time.Minute)}))

	var wins, losses atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.ConsumeToken(ctx, "n1", now)
			switch {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, repository.ErrTokenAlreadyConsumed):
				losses.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(19), losses.Load())

	token, err := store.FindToken(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, token.Consumed)
	require.NotNil(t, token.ConsumedAt)
}

func TestConsumeToken_Missing(t *testing.T) {
	err := NewStore().ConsumeToken(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestCreateToken_Collision(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.CreateToken(ctx, &entity.EntryToken{Nonce: "n1"}))
	assert.ErrorIs(t, store.CreateToken(ctx, &entity.EntryToken{Nonce: "n1"}), repository.ErrTokenExists)
}

func TestDeleteExpiredTokens(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now()
	require.NoError(t, store.CreateToken(ctx, &entity.EntryToken{Nonce: "old", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.CreateToken(ctx, &entity.EntryToken{Nonce: "fresh", ExpiresAt: now.Add(time.Minute)}))

	deleted, err := store.DeleteExpiredTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = store.FindToken(ctx, "old")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	_, err = store.FindToken(ctx, "fresh")
	assert.NoError(t, err)
}

func TestSessions_AreCopied(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	session := entity.NewPresenceSession("v1", "u1", "v1_2025-03-01", time.Now())
	require.NoError(t, store.SaveSession(ctx, session))

	session.State = entity.PresencePaused
	session.History[0].Reason = "mutated"

	stored, err := store.FindSession(ctx, "v1", "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.PresenceActive, stored.State)
	assert.Equal(t, "entry_verified", stored.History[0].Reason)

	_, err = store.FindSession(ctx, "v1", "u2")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSamples_KeepNewest(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	base := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	for i := range 7 {
		sample := &entity.LocationSample{Accuracy: float64(i), CapturedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.AppendSample(ctx, "u1", sample, 5))
	}

	assert.Len(t, store.samples["u1"], 5)

	latest, err := store.FindLatestSample(ctx, "u1", base)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, latest.Accuracy, 0.0001)

	_, err = store.FindLatestSample(ctx, "u1", base.Add(time.Hour))
	assert.ErrorIs(t, err, repository.ErrSampleNotFound)

	removed, err := store.DeleteSamplesBefore(ctx, base.Add(4*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Len(t, store.samples["u1"], 3)
}

func TestDevices_UpsertAndDeactivate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now()

	first := &entity.UserDevice{ID: uuid.New(), UserID: "u1", DeviceID: "phone", FCMToken: "t1", IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.UpsertDevice(ctx, first))

	again := &entity.UserDevice{ID: uuid.New(), UserID: "u1", DeviceID: "phone", FCMToken: "t2", Platform: "ios", IsActive: true, UpdatedAt: now.Add(time.Minute)}
	require.NoError(t, store.UpsertDevice(ctx, again))
	assert.Equal(t, first.ID, again.ID)

	devices, err := store.FindActiveDevicesByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "t2", devices[0].FCMToken)

	require.NoError(t, store.DeactivateDeviceByToken(ctx, "t2"))
	devices, err = store.FindActiveDevicesByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestWindows_ExpireAfterTTL(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	window := now.Truncate(time.Minute)

	for range 3 {
		_, err := store.IncrementWindow(ctx, "ping:u1", window, 2*time.Minute)
		require.NoError(t, err)
	}
	count, err := store.CountWindow(ctx, "ping:u1", window)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	now = now.Add(3 * time.Minute)
	count, err = store.CountWindow(ctx, "ping:u1", window)
	require.NoError(t, err)
	assert.Zero(t, count)

	removed, err := store.DeleteExpiredWindows(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestExecute_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewStore().Execute(ctx, func(repository.RepositoryFactory) error {
		called = true

		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venues.yaml")
	content := `venues:
  - id: venue-1
    name: Rooftop Bar
    business_type: rooftop bar
    latitude: 25.033
    longitude: 121.5654
    event_hub:
      enabled: true
      qr_code_id: qr-1
      location_radius: 40
      timezone: Asia/Taipei
      schedule:
        friday:
          enabled: true
          start_time: "18:00"
          end_time: "02:00"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store := NewStore()
	loaded, err := store.LoadSeed(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	venue, err := store.FindVenueByID(context.Background(), "venue-1")
	require.NoError(t, err)
	require.NotNil(t, venue.EventHub)
	assert.True(t, venue.EventHub.Enabled)
	assert.Equal(t, "qr-1", venue.EventHub.QRCodeID)
	assert.InDelta(t, 40.0, venue.EventHub.LocationRadius, 0.0001)
	assert.Equal(t, "18:00", venue.EventHub.Schedule["friday"].StartTime)
}

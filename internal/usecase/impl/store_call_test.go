package impl

import (
	"context"
	"testing"
	"time"

	domainerrors "venuegate/internal/domain/errors"
	"venuegate/internal/domain/repository"
	internalerrors "venuegate/internal/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCaller_Do(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		failWith     error
		wantAttempts int
		wantErr      error
		unavailable  bool
	}{
		{name: "first attempt succeeds", wantAttempts: 1},
		{name: "transient failure is retried", failures: 2, failWith: errors.New("timeout"), wantAttempts: 3},
		{name: "exhaustion", failures: 5, failWith: errors.New("timeout"), wantAttempts: 3, unavailable: true},
		{name: "not found is an answer", failures: 5, failWith: repository.ErrTokenNotFound, wantAttempts: 1, wantErr: repository.ErrTokenNotFound},
		{name: "lost race is an answer", failures: 5, failWith: repository.ErrTokenAlreadyConsumed, wantAttempts: 1, wantErr: repository.ErrTokenAlreadyConsumed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := newRecordingMetrics()
			caller := newStoreCaller(testConfig(), metrics, testLogger())

			attempts := 0
			err := caller.do(context.Background(), "op", func(ctx context.Context) error {
				attempts++
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				if attempts <= tt.failures {
					return tt.failWith
				}

				return nil
			})

			assert.Equal(t, tt.wantAttempts, attempts)
			assert.Equal(t, tt.wantAttempts, metrics.storeAttempts["op"])
			switch {
			case tt.unavailable:
				require.Error(t, err)
				assert.True(t, isStoreUnavailable(err))
				assert.Contains(t, err.Error(), "op")
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, isStoreUnavailable(err))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestStoreCaller_PerAttemptTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Timeout = 10 * time.Millisecond
	cfg.Store.Retry.MaxAttempts = 2
	caller := newStoreCaller(cfg, newRecordingMetrics(), testLogger())

	err := caller.do(context.Background(), "slow", func(ctx context.Context) error {
		<-ctx.Done()

		return ctx.Err()
	})

	require.Error(t, err)
	appErr, ok := internalerrors.AsType[domainerrors.AppError](err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.ErrStoreUnavailable.ErrorCode(), appErr.ErrorCode())
	assert.Equal(t, 503, appErr.HTTPCode())
}

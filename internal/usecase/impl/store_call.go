package impl

import (
	"context"
	"log/slog"
	"time"

	"venuegate/config"
	deliverycontext "venuegate/internal/delivery/context"
	domainerrors "venuegate/internal/domain/errors"
	"venuegate/internal/domain/repository"
	"venuegate/internal/domain/service"
	"venuegate/internal/errors"

	"github.com/sethvargo/go-retry"
)

// permanentStoreErrors are answers from the store, not failures of it. They are never retried.
var permanentStoreErrors = []error{
	repository.ErrVenueNotFound,
	repository.ErrTokenNotFound,
	repository.ErrTokenExists,
	repository.ErrTokenAlreadyConsumed,
	repository.ErrSessionNotFound,
	repository.ErrSampleNotFound,
	repository.ErrDeviceNotFound,
	context.Canceled,
}

// storeCaller bounds every store call with a per-attempt timeout and retries
// transient failures with exponential backoff.
type storeCaller struct {
	timeout     time.Duration
	maxAttempts int
	baseDelay   time.Duration
	metrics     service.ProtocolMetrics
	logger      *slog.Logger
}

func newStoreCaller(cfg *config.Config, metrics service.ProtocolMetrics, logger *slog.Logger) *storeCaller {
	timeout, _ := storeTimeouts(cfg)

	return &storeCaller{
		timeout:     timeout,
		maxAttempts: max(cfg.Store.Retry.MaxAttempts, 1),
		baseDelay:   max(cfg.Store.Retry.BaseDelay, time.Millisecond),
		metrics:     metrics,
		logger:      logger,
	}
}

// do runs fn until it succeeds, returns a permanent error, or attempts run out.
// Exhaustion surfaces as ErrStoreUnavailable wrapping the last failure.
func (c *storeCaller) do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	start := time.Now()
	attempts := 0

	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), retry.NewExponential(c.baseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		callErr := fn(callCtx)
		if callErr == nil || isPermanentStoreError(callErr) {
			return callErr
		}

		return retry.RetryableError(callErr)
	})

	c.metrics.ObserveStoreCall(operation, attempts, time.Since(start), err)

	if err == nil || isPermanentStoreError(err) {
		return err
	}

	deliverycontext.GetLoggerOrDefault(ctx, c.logger).Error("Store call failed",
		slog.String("operation", operation),
		slog.Int("attempts", attempts),
		slog.Any("error", err),
	)

	return errors.Wrap(domainerrors.ErrStoreUnavailable.WithDetails(err.Error()), operation)
}

func isPermanentStoreError(err error) bool {
	for _, target := range permanentStoreErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// isStoreUnavailable reports whether err came out of an exhausted store call.
func isStoreUnavailable(err error) bool {
	appErr, ok := errors.AsType[domainerrors.AppError](err)

	return ok && appErr.ErrorCode() == domainerrors.ErrStoreUnavailable.ErrorCode()
}

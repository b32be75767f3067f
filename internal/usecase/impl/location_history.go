package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "venuegate/internal/delivery/context"
	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"
	"venuegate/internal/errors"
)

// locationHistory keeps the recent per-user samples that feed the precision-jump heuristic.
// Reads and writes are single attempts; a failure only weakens the heuristic.
type locationHistory struct {
	sampleRepo repository.LocationSampleRepository
	size       int
	retention  time.Duration
	timeout    time.Duration
	logger     *slog.Logger
}

// previous returns the user's latest sample within the retention window, nil if none.
func (h *locationHistory) previous(ctx context.Context, userID string, now time.Time) *entity.LocationSample {
	readCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	sample, err := h.sampleRepo.FindLatestSample(readCtx, userID, now.Add(-h.retention))
	if err != nil {
		if !errors.Is(err, repository.ErrSampleNotFound) {
			deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Failed to read location history",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}

		return nil
	}

	return sample
}

func (h *locationHistory) remember(ctx context.Context, userID string, sample entity.LocationSample) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
	defer cancel()

	if err := h.sampleRepo.AppendSample(writeCtx, userID, &sample, h.size); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Failed to append location sample",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

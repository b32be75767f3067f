package postgres

import (
	"context"
	"time"

	"venuegate/internal/domain/repository"
	"venuegate/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// rateLimitRepository implements the repository.RateLimitRepository interface.
type rateLimitRepository struct {
	db *gorm.DB
}

// NewRateLimitRepository is the constructor for rateLimitRepository.
func NewRateLimitRepository(db *gorm.DB) repository.RateLimitRepository {
	return &rateLimitRepository{
		db: db,
	}
}

// IncrementWindow inserts the counter or increments it atomically with ON CONFLICT.
func (repo *rateLimitRepository) IncrementWindow(ctx context.Context, key string, windowStart time.Time, ttl time.Duration) (int64, error) {
	windowM := &model.RateLimitWindowModel{
		Key:         key,
		WindowStart: windowStart,
		Count:       1,
		ExpiresAt:   windowStart.Add(ttl),
	}

	if err := repo.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "key"}, {Name: "window_start"}},
				DoUpdates: clause.Assignments(map[string]any{
					"count": gorm.Expr("rate_limit_windows.count + 1"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "count"}}},
		).
		Create(windowM).Error; err != nil {
		return 0, dbError(err, "failed to increment rate limit window")
	}

	return windowM.Count, nil
}

// CountWindow returns the counter of a window, zero when absent or expired.
func (repo *rateLimitRepository) CountWindow(ctx context.Context, key string, windowStart time.Time) (int64, error) {
	var windows []model.RateLimitWindowModel

	if err := repo.db.WithContext(ctx).
		Where("key = ? AND window_start = ? AND expires_at > ?", key, windowStart, time.Now()).
		Limit(1).
		Find(&windows).Error; err != nil {
		return 0, dbError(err, "failed to count rate limit window")
	}
	if len(windows) == 0 {
		return 0, nil
	}

	return windows[0].Count, nil
}

package postgres

import (
	"context"
	"time"

	"venuegate/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// Maintenance deletes rows past their lifetime. Postgres has no TTL, so a sweeper calls it.
type Maintenance struct {
	db *gorm.DB
}

// NewMaintenance is the constructor for Maintenance.
func NewMaintenance(db *gorm.DB) *Maintenance {
	return &Maintenance{db: db}
}

// DeleteExpiredTokens removes tokens that expired before the given time.
func (m *Maintenance) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	return (&tokenRepository{db: m.db}).DeleteExpiredTokens(ctx, before)
}

// DeleteSamplesBefore removes samples captured before the given time.
func (m *Maintenance) DeleteSamplesBefore(ctx context.Context, before time.Time) (int64, error) {
	result := m.db.WithContext(ctx).
		Where("captured_at < ?", before).
		Delete(&model.LocationSampleModel{})
	if result.Error != nil {
		return 0, dbError(result.Error, "failed to delete old location samples")
	}

	return result.RowsAffected, nil
}

// DeleteExpiredWindows removes rate limit counters past their expiry.
func (m *Maintenance) DeleteExpiredWindows(ctx context.Context, before time.Time) (int64, error) {
	result := m.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&model.RateLimitWindowModel{})
	if result.Error != nil {
		return 0, dbError(result.Error, "failed to delete expired rate limit windows")
	}

	return result.RowsAffected, nil
}

package postgres

import (
	"context"
	"time"

	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"
	"venuegate/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// locationSampleRepository implements the repository.LocationSampleRepository interface.
type locationSampleRepository struct {
	db *gorm.DB
}

// NewLocationSampleRepository is the constructor for locationSampleRepository.
func NewLocationSampleRepository(db *gorm.DB) repository.LocationSampleRepository {
	return &locationSampleRepository{
		db: db,
	}
}

// FindLatestSample returns the newest sample captured after since.
func (repo *locationSampleRepository) FindLatestSample(ctx context.Context, userID string, since time.Time) (*entity.LocationSample, error) {
	var sampleM model.LocationSampleModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND captured_at > ?", userID, since).
		Order("captured_at DESC").
		First(&sampleM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSampleNotFound
		}

		return nil, dbError(err, "failed to find latest location sample")
	}

	return &entity.LocationSample{
		Latitude:   sampleM.Latitude,
		Longitude:  sampleM.Longitude,
		Accuracy:   sampleM.Accuracy,
		CapturedAt: sampleM.CapturedAt,
	}, nil
}

// AppendSample inserts a sample and trims the user's history in one transaction.
func (repo *locationSampleRepository) AppendSample(ctx context.Context, userID string, sample *entity.LocationSample, keep int) error {
	sampleM := &model.LocationSampleModel{
		UserID:     userID,
		Latitude:   sample.Latitude,
		Longitude:  sample.Longitude,
		Accuracy:   sample.Accuracy,
		CapturedAt: sample.CapturedAt,
	}

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sampleM).Error; err != nil {
			return err
		}
		if keep <= 0 {
			return nil
		}

		newest := tx.Model(&model.LocationSampleModel{}).
			Select("id").
			Where("user_id = ?", userID).
			Order("captured_at DESC").
			Limit(keep)

		return tx.Where("user_id = ? AND id NOT IN (?)", userID, newest).
			Delete(&model.LocationSampleModel{}).Error
	})
	if err != nil {
		return dbError(err, "failed to append location sample")
	}

	return nil
}

package postgres

import (
	"context"

	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"
	"venuegate/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// auditRepository implements the repository.AuditRepository interface.
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository is the constructor for auditRepository.
func NewAuditRepository(db *gorm.DB) repository.AuditRepository {
	return &auditRepository{
		db: db,
	}
}

// AppendEntry inserts one audit row. Rows are never updated.
func (repo *auditRepository) AppendEntry(ctx context.Context, entry *entity.SecurityAuditEntry) error {
	entryM := &model.SecurityAuditModel{
		ID:            entry.ID,
		EventType:     string(entry.EventType),
		UserID:        entry.UserID,
		VenueID:       entry.VenueID,
		Nonce:         entry.Nonce,
		Outcome:       entry.Outcome,
		FailureReason: entry.FailureReason,
		MockDetected:  entry.MockDetected,
		Accuracy:      entry.Accuracy,
		Distance:      entry.Distance,
		RequestID:     entry.RequestID,
		Timestamp:     entry.Timestamp,
	}

	if err := repo.db.WithContext(ctx).Create(entryM).Error; err != nil {
		return dbError(err, "failed to append audit entry")
	}

	return nil
}

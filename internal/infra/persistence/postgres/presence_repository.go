package postgres

import (
	"context"
	"time"

	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"
	"venuegate/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// presenceRepository implements the repository.PresenceRepository interface.
type presenceRepository struct {
	db       *gorm.DB
	lockRows bool // SELECT ... FOR UPDATE, only meaningful inside a transaction.
}

// NewPresenceRepository is the constructor for presenceRepository.
func NewPresenceRepository(db *gorm.DB) repository.PresenceRepository {
	return &presenceRepository{
		db: db,
	}
}

// FindSession retrieves the session of a user at a venue.
func (repo *presenceRepository) FindSession(ctx context.Context, venueID, userID string) (*entity.PresenceSession, error) {
	var sessionM model.PresenceSessionModel

	query := repo.db.WithContext(ctx)
	if repo.lockRows {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	if err := query.
		Where("venue_id = ? AND user_id = ?", venueID, userID).
		First(&sessionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, dbError(err, "failed to find presence session")
	}

	return toSessionDomain(&sessionM), nil
}

// SaveSession upserts the session row of the (venue, user) pair.
func (repo *presenceRepository) SaveSession(ctx context.Context, session *entity.PresenceSession) error {
	sessionM := fromSessionDomain(session)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "venue_id"}, {Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(sessionM).Error; err != nil {
		return dbError(err, "failed to save presence session")
	}

	return nil
}

// --- Mapper Functions ---

func toSessionDomain(data *model.PresenceSessionModel) *entity.PresenceSession {
	return &entity.PresenceSession{
		VenueID:                 data.VenueID,
		UserID:                  data.UserID,
		EventID:                 data.EventID,
		State:                   entity.PresenceState(data.State),
		ProfileVisible:          data.ProfileVisible,
		JoinedAt:                data.JoinedAt,
		LastPingAt:              fromNullableTime(data.LastPingAt),
		LastInsideAt:            fromNullableTime(data.LastInsideAt),
		TimeInVenueSeconds:      data.TimeInVenueSeconds,
		ConsecutiveOutsidePings: data.ConsecutiveOutsidePings,
		PausedAt:                data.PausedAt,
		History:                 data.History,
		UpdatedAt:               data.UpdatedAt,
	}
}

func fromSessionDomain(data *entity.PresenceSession) *model.PresenceSessionModel {
	return &model.PresenceSessionModel{
		VenueID:                 data.VenueID,
		UserID:                  data.UserID,
		EventID:                 data.EventID,
		State:                   data.State.String(),
		ProfileVisible:          data.ProfileVisible,
		JoinedAt:                data.JoinedAt,
		LastPingAt:              toNullableTime(data.LastPingAt),
		LastInsideAt:            toNullableTime(data.LastInsideAt),
		TimeInVenueSeconds:      data.TimeInVenueSeconds,
		ConsecutiveOutsidePings: data.ConsecutiveOutsidePings,
		PausedAt:                data.PausedAt,
		History:                 data.History,
		UpdatedAt:               data.UpdatedAt,
	}
}

func toNullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}

func fromNullableTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}

	return *t
}

package postgres

import (
	"context"

	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"
	"venuegate/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// venueRepository implements the repository.VenueRepository interface.
type venueRepository struct {
	db *gorm.DB
}

// NewVenueRepository is the constructor for venueRepository.
func NewVenueRepository(db *gorm.DB) repository.VenueRepository {
	return &venueRepository{
		db: db,
	}
}

// FindVenueByID retrieves a venue by its ID.
func (repo *venueRepository) FindVenueByID(ctx context.Context, venueID string) (*entity.Venue, error) {
	var venueM model.VenueModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", venueID).
		First(&venueM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVenueNotFound
		}

		return nil, dbError(err, "failed to find venue by ID")
	}

	return toVenueDomain(&venueM), nil
}

// --- Mapper Functions ---

func toVenueDomain(data *model.VenueModel) *entity.Venue {
	return &entity.Venue{
		ID:           data.ID,
		Name:         data.Name,
		BusinessType: data.BusinessType,
		Latitude:     data.Latitude,
		Longitude:    data.Longitude,
		EventHub:     data.EventHub,
	}
}

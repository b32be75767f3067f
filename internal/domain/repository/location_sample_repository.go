package repository

import (
	"context"
	"time"

	"venuegate/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrSampleNotFound is returned when a user has no recent location sample.
var ErrSampleNotFound = errors.New("location sample not found")

// LocationSampleRepository keeps a short per-user history of verified locations
// used as the previous sample in mock-location detection.
type LocationSampleRepository interface {
	// FindLatestSample returns the newest sample captured after since.
	FindLatestSample(ctx context.Context, userID string, since time.Time) (*entity.LocationSample, error)

	// AppendSample stores a sample and trims the user's history to keep samples.
	AppendSample(ctx context.Context, userID string, sample *entity.LocationSample, keep int) error
}

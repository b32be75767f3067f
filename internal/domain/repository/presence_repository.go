package repository

import (
	"context"

	"venuegate/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned when a user has no presence session at a venue.
var ErrSessionNotFound = errors.New("presence session not found")

// PresenceRepository persists presence sessions keyed by venue and user.
type PresenceRepository interface {
	// FindSession retrieves the session of a user at a venue.
	FindSession(ctx context.Context, venueID, userID string) (*entity.PresenceSession, error)

	// SaveSession creates or replaces the session of session.UserID at session.VenueID.
	SaveSession(ctx context.Context, session *entity.PresenceSession) error
}

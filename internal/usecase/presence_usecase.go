package usecase

import (
	"context"
	"time"

	"venuegate/internal/domain/entity"
)

// PingInput defines a periodic location ping from a checked-in client.
type PingInput struct {
	UserID        string
	VenueID       string
	Location      Location
	BatteryLevel  *float64 // Percent, informational only.
	MovementSpeed *float64 // Meters per second, informational only.
}

// PingOutput is the presence state after a ping.
type PingOutput struct {
	NewState         entity.PresenceState
	StateChanged     bool
	ProfileVisible   bool
	NextPingInterval time.Duration
	Reason           string
	UserMessage      string
}

// PresenceUsecase defines the presence tracking use cases.
type PresenceUsecase interface {
	// ProcessPing advances the caller's session at a venue by one ping.
	ProcessPing(ctx context.Context, input *PingInput) (*PingOutput, error)

	// GetSession returns the caller's current session at a venue.
	GetSession(ctx context.Context, venueID, userID string) (*entity.PresenceSession, error)
}

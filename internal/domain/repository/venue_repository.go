// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"venuegate/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrVenueNotFound is returned when no venue record exists for an ID.
var ErrVenueNotFound = errors.New("venue not found")

// VenueRepository reads venue records. Venues are managed elsewhere; this service never writes them.
type VenueRepository interface {
	// FindVenueByID retrieves a venue by its ID.
	FindVenueByID(ctx context.Context, venueID string) (*entity.Venue, error)
}

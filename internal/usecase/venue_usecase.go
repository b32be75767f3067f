package usecase

import "context"

// VenueUsecase defines venue-facing use cases.
type VenueUsecase interface {
	// GenerateVenueQR renders the static check-in QR code of an enabled venue as PNG.
	GenerateVenueQR(ctx context.Context, venueID string) ([]byte, error)
}

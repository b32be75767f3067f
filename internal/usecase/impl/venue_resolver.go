package impl

import (
	"context"

	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"
	"venuegate/internal/errors"
)

// ErrVenueConfigNotFound is returned when a venue has no usable check-in configuration.
var ErrVenueConfigNotFound = errors.New("venue event config not found")

// venueResolver derives VenueEventConfig views from stored venues.
type venueResolver struct {
	venueRepo repository.VenueRepository
	store     *storeCaller
	defaults  entity.VenueDefaults
}

func newVenueResolver(venueRepo repository.VenueRepository, store *storeCaller, defaults entity.VenueDefaults) *venueResolver {
	return &venueResolver{
		venueRepo: venueRepo,
		store:     store,
		defaults:  defaults,
	}
}

// Resolve returns the config of venueID when check-in is enabled and qrCodeID matches.
func (r *venueResolver) Resolve(ctx context.Context, venueID, qrCodeID string) (*entity.VenueEventConfig, error) {
	cfg, err := r.ResolveVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if cfg.QRCodeID != qrCodeID {
		return nil, errors.Wrap(ErrVenueConfigNotFound, "qr code id mismatch")
	}

	return cfg, nil
}

// ResolveVenue returns the config of venueID when check-in is enabled, regardless of QR code.
func (r *venueResolver) ResolveVenue(ctx context.Context, venueID string) (*entity.VenueEventConfig, error) {
	var venue *entity.Venue
	err := r.store.do(ctx, "find_venue", func(ctx context.Context) error {
		var findErr error
		venue, findErr = r.venueRepo.FindVenueByID(ctx, venueID)

		return findErr
	})
	if errors.Is(err, repository.ErrVenueNotFound) {
		return nil, errors.Wrap(ErrVenueConfigNotFound, "venue absent")
	}
	if err != nil {
		return nil, err
	}

	cfg, ok := entity.NewVenueEventConfig(venue, r.defaults)
	if !ok {
		return nil, errors.Wrap(ErrVenueConfigNotFound, "event hub disabled")
	}

	return cfg, nil
}

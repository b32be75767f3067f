package impl

import (
	"context"
	"log/slog"

	"venuegate/config"
	domainerrors "venuegate/internal/domain/errors"
	"venuegate/internal/domain/repository"
	"venuegate/internal/domain/service"
	"venuegate/internal/errors"
	"venuegate/internal/usecase"

	"go.uber.org/fx"
)

type venueService struct {
	resolver  *venueResolver
	qrCodeSvc service.QRCodeService
	logger    *slog.Logger
}

// VenueServiceParams holds dependencies for VenueService, injected by Fx.
type VenueServiceParams struct {
	fx.In

	Config    *config.Config
	VenueRepo repository.VenueRepository
	QRCodeSvc service.QRCodeService
	Metrics   service.ProtocolMetrics
	Logger    *slog.Logger
}

// NewVenueService creates a new venue service instance
func NewVenueService(params VenueServiceParams) usecase.VenueUsecase {
	store := newStoreCaller(params.Config, params.Metrics, params.Logger)

	return &venueService{
		resolver:  newVenueResolver(params.VenueRepo, store, venueDefaultsFromConfig(params.Config)),
		qrCodeSvc: params.QRCodeSvc,
		logger:    params.Logger,
	}
}

// GenerateVenueQR renders the static QR code that users scan to request an entry nonce.
func (s *venueService) GenerateVenueQR(ctx context.Context, venueID string) ([]byte, error) {
	cfg, err := s.resolver.ResolveVenue(ctx, venueID)
	if errors.Is(err, ErrVenueConfigNotFound) {
		return nil, domainerrors.ErrVenueNotConfigured
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve venue")
	}

	png, err := s.qrCodeSvc.GenerateVenueQR(service.VenueQRPayload{
		Type:     service.QRPayloadType,
		VenueID:  cfg.VenueID,
		QRCodeID: cfg.QRCodeID,
	})
	if err != nil {
		s.logger.Error("Failed to render venue QR code", slog.String("venue_id", venueID), slog.Any("error", err))

		return nil, domainerrors.ErrQRCodeGenerationFailed
	}

	return png, nil
}

// Package qrcode renders and parses the static check-in QR codes of venues.
package qrcode

import (
	"encoding/json"
	"strings"

	"venuegate/config"
	"venuegate/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	defaultSize = 256
	// maxPayloadLength bounds scanned input before it is decoded.
	maxPayloadLength = 1024
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch strings.ToUpper(errorCorrectionLevel) {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}
	if size <= 0 {
		size = defaultSize
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// NewQRCodeServiceFromConfig builds the service from the qrcode config section, with defaults when absent.
func NewQRCodeServiceFromConfig(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(defaultSize, "M")
	}

	return NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

// GenerateVenueQR renders the venue payload as a PNG QR code.
func (s *qrcodeService) GenerateVenueQR(payload service.VenueQRPayload) ([]byte, error) {
	if payload.VenueID == "" || payload.QRCodeID == "" {
		return nil, errors.Wrap(service.ErrInvalidQRPayload, "venue id and qr code id are required")
	}
	payload.Type = service.QRPayloadType

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal QR code data")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseVenueQR decodes scanned content into a venue payload.
func (s *qrcodeService) ParseVenueQR(qrData string) (*service.VenueQRPayload, error) {
	if len(qrData) > maxPayloadLength {
		return nil, errors.Wrap(service.ErrInvalidQRPayload, "payload too long")
	}

	var payload service.VenueQRPayload
	if err := json.Unmarshal([]byte(qrData), &payload); err != nil {
		return nil, errors.Wrap(service.ErrInvalidQRPayload, err.Error())
	}

	if payload.Type != service.QRPayloadType {
		return nil, errors.Wrapf(service.ErrInvalidQRPayload, "unexpected type %q", payload.Type)
	}
	if strings.TrimSpace(payload.VenueID) == "" || strings.TrimSpace(payload.QRCodeID) == "" {
		return nil, errors.Wrap(service.ErrInvalidQRPayload, "missing venue id or qr code id")
	}

	return &payload, nil
}

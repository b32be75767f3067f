package service

import "github.com/pkg/errors"

// QRPayloadType marks a QR code as a venue check-in code.
const QRPayloadType = "venue_event"

// ErrInvalidQRPayload is returned when scanned data is not a venue check-in code.
var ErrInvalidQRPayload = errors.New("invalid venue qr payload")

// VenueQRPayload is the content encoded in a venue's static QR code.
type VenueQRPayload struct {
	Type     string `json:"type"`
	VenueID  string `json:"venueId"`
	QRCodeID string `json:"qrCodeId"`
}

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateVenueQR renders the static check-in QR code of a venue as PNG.
	GenerateVenueQR(payload VenueQRPayload) ([]byte, error)

	// ParseVenueQR decodes scanned QR content. It returns ErrInvalidQRPayload when
	// the content is not a well-formed venue check-in payload.
	ParseVenueQR(qrData string) (*VenueQRPayload, error)
}

package qrcode

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"venuegate/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
		{"Default size", 0, "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQRCodeService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, svc)
		})
	}
}

func TestQRCodeService_GenerateVenueQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	pngBytes, err := svc.GenerateVenueQR(service.VenueQRPayload{VenueID: "venue-1", QRCodeID: "qr-1"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestQRCodeService_GenerateVenueQR_MissingIDs(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	_, err := svc.GenerateVenueQR(service.VenueQRPayload{VenueID: "venue-1"})
	assert.ErrorIs(t, err, service.ErrInvalidQRPayload)
}

func TestQRCodeService_ParseVenueQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"valid", `{"type":"venue_event","venueId":"venue-1","qrCodeId":"qr-1"}`, false},
		{"not json", "https://example.com/venue-1", true},
		{"wrong type", `{"type":"subscription","venueId":"venue-1","qrCodeId":"qr-1"}`, true},
		{"missing venue", `{"type":"venue_event","qrCodeId":"qr-1"}`, true},
		{"missing qr code", `{"type":"venue_event","venueId":"venue-1"}`, true},
		{"blank ids", `{"type":"venue_event","venueId":" ","qrCodeId":"qr-1"}`, true},
		{"too long", `{"type":"venue_event","venueId":"` + strings.Repeat("a", 2000) + `","qrCodeId":"qr-1"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := svc.ParseVenueQR(tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidQRPayload)
				assert.Nil(t, payload)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, "venue-1", payload.VenueID)
			assert.Equal(t, "qr-1", payload.QRCodeID)
		})
	}
}

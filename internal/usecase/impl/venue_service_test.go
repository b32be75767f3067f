package impl

import (
	"context"
	"testing"

	domainerrors "venuegate/internal/domain/errors"
	"venuegate/internal/domain/service"
	"venuegate/internal/infra/persistence/memory"
	mockService "venuegate/internal/mocks/service"
	"venuegate/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestVenueService(t *testing.T, qrCodeSvc service.QRCodeService) (usecase.VenueUsecase, *memory.Store) {
	t.Helper()

	store := memory.NewStore()

	return NewVenueService(VenueServiceParams{
		Config:    testConfig(),
		VenueRepo: store,
		QRCodeSvc: qrCodeSvc,
		Metrics:   newRecordingMetrics(),
		Logger:    testLogger(),
	}), store
}

func TestVenueService_GenerateVenueQR(t *testing.T) {
	qrSvc := mockService.NewMockQRCodeService(t)
	svc, store := newTestVenueService(t, qrSvc)
	store.PutVenue(testVenue(openAllWeek()))

	qrSvc.EXPECT().
		GenerateVenueQR(service.VenueQRPayload{Type: service.QRPayloadType, VenueID: testVenueID, QRCodeID: testQRCodeID}).
		Return([]byte("\x89PNG"), nil)

	png, err := svc.GenerateVenueQR(context.Background(), testVenueID)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png)
}

func TestVenueService_GenerateVenueQR_NotConfigured(t *testing.T) {
	svc, store := newTestVenueService(t, mockService.NewMockQRCodeService(t))
	disabled := testVenue(openAllWeek())
	disabled.ID = "venue-disabled"
	disabled.EventHub.Enabled = false
	store.PutVenue(disabled)

	for _, venueID := range []string{"venue-missing", "venue-disabled"} {
		_, err := svc.GenerateVenueQR(context.Background(), venueID)
		assert.ErrorIs(t, err, domainerrors.ErrVenueNotConfigured, venueID)
	}
}

func TestVenueService_GenerateVenueQR_RenderFailure(t *testing.T) {
	qrSvc := mockService.NewMockQRCodeService(t)
	svc, store := newTestVenueService(t, qrSvc)
	store.PutVenue(testVenue(openAllWeek()))

	qrSvc.EXPECT().GenerateVenueQR(mock.Anything).Return(nil, errors.New("encoder"))

	_, err := svc.GenerateVenueQR(context.Background(), testVenueID)
	assert.ErrorIs(t, err, domainerrors.ErrQRCodeGenerationFailed)
}

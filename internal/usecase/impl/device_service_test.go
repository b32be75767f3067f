package impl

import (
	"context"
	"testing"
	"time"

	"venuegate/internal/domain/entity"
	mockRepo "venuegate/internal/mocks/repository"
	"venuegate/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// deviceServiceFixtures holds all test dependencies for device service tests.
type deviceServiceFixtures struct {
	service    usecase.DeviceUsecase
	deviceRepo *mockRepo.MockDeviceRepository
}

func createTestDeviceService(t *testing.T) deviceServiceFixtures {
	deviceRepo := mockRepo.NewMockDeviceRepository(t)
	service := NewDeviceService(deviceRepo)

	return deviceServiceFixtures{
		service:    service,
		deviceRepo: deviceRepo,
	}
}

func TestDeviceService_RegisterDevice_NewDevice(t *testing.T) {
	fx := createTestDeviceService(t)

	ctx := context.Background()
	deviceInfo := &usecase.DeviceInfo{
		FCMToken: "test-fcm-token",
		DeviceID: "device-123",
		Platform: "ios",
	}

	fx.deviceRepo.EXPECT().
		UpsertDevice(ctx, mock.MatchedBy(func(device *entity.UserDevice) bool {
			return device.UserID == testUserID && device.IsActive && device.ID != uuid.Nil
		})).
		Return(nil)

	device, err := fx.service.RegisterDevice(ctx, testUserID, deviceInfo)
	require.NoError(t, err)
	assert.Equal(t, testUserID, device.UserID)
	assert.Equal(t, deviceInfo.FCMToken, device.FCMToken)
	assert.Equal(t, deviceInfo.DeviceID, device.DeviceID)
	assert.Equal(t, deviceInfo.Platform, device.Platform)
	assert.True(t, device.IsActive)
}

func TestDeviceService_RegisterDevice_KeepsStoredIdentity(t *testing.T) {
	fx := createTestDeviceService(t)

	ctx := context.Background()
	existingID := uuid.New()
	createdAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	fx.deviceRepo.EXPECT().
		UpsertDevice(ctx, mock.AnythingOfType("*entity.UserDevice")).
		Run(func(_ context.Context, device *entity.UserDevice) {
			device.ID = existingID
			device.CreatedAt = createdAt
		}).
		Return(nil)

	device, err := fx.service.RegisterDevice(ctx, testUserID, &usecase.DeviceInfo{
		FCMToken: "new-fcm-token",
		DeviceID: "device-123",
		Platform: "android",
	})
	require.NoError(t, err)
	assert.Equal(t, existingID, device.ID)
	assert.Equal(t, createdAt, device.CreatedAt)
	assert.Equal(t, "new-fcm-token", device.FCMToken)
}

func TestDeviceService_RegisterDevice_RepositoryError(t *testing.T) {
	fx := createTestDeviceService(t)

	ctx := context.Background()
	fx.deviceRepo.EXPECT().
		UpsertDevice(ctx, mock.Anything).
		Return(errors.New("database error"))

	device, err := fx.service.RegisterDevice(ctx, testUserID, &usecase.DeviceInfo{FCMToken: "t", DeviceID: "d", Platform: "ios"})
	assert.Nil(t, device)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert device")
}

func TestDeviceService_GetUserDevices(t *testing.T) {
	fx := createTestDeviceService(t)

	ctx := context.Background()
	devices := []*entity.UserDevice{
		{ID: uuid.New(), UserID: testUserID, FCMToken: "token-1", DeviceID: "phone", Platform: "ios", IsActive: true},
		{ID: uuid.New(), UserID: testUserID, FCMToken: "token-2", DeviceID: "tablet", Platform: "android", IsActive: true},
	}

	fx.deviceRepo.EXPECT().
		FindActiveDevicesByUser(ctx, testUserID).
		Return(devices, nil)

	result, err := fx.service.GetUserDevices(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, devices, result)
}

func TestDeviceService_GetUserDevices_RepositoryError(t *testing.T) {
	fx := createTestDeviceService(t)

	ctx := context.Background()
	fx.deviceRepo.EXPECT().
		FindActiveDevicesByUser(ctx, testUserID).
		Return(nil, errors.New("database error"))

	result, err := fx.service.GetUserDevices(ctx, testUserID)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "failed to find active devices by user")
}

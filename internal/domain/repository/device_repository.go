package repository

import (
	"context"

	"venuegate/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for device persistence.
var (
	// ErrDeviceNotFound is returned when a device is not found.
	ErrDeviceNotFound = errors.New("device not found")
)

// DeviceRepository defines the interface for push device persistence.
type DeviceRepository interface {
	// UpsertDevice registers a device or refreshes its token, keyed by user and device ID.
	// The stored record, with its ID and timestamps filled in, is written back into device.
	UpsertDevice(ctx context.Context, device *entity.UserDevice) error

	// FindActiveDevicesByUser retrieves all active devices for a specific user.
	FindActiveDevicesByUser(ctx context.Context, userID string) ([]*entity.UserDevice, error)

	// DeactivateDeviceByToken marks every device holding the FCM token inactive.
	DeactivateDeviceByToken(ctx context.Context, fcmToken string) error
}

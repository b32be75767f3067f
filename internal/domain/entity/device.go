package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserDevice represents a user's device registered for presence push notifications.
type UserDevice struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`   // Subject of the caller's access token.
	FCMToken  string    `json:"fcm_token"` // Firebase Cloud Messaging token for push notifications.
	DeviceID  string    `json:"device_id"` // Unique device identifier from the client.
	Platform  string    `json:"platform"`  // Device platform (ios, android).
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package service

import (
	"context"
	"time"
)

// Presence event types
const (
	EventPresenceChanged = "presence.changed"
	EventMockLocation    = "security.mock_location"
)

// PresenceEvent is published after a presence state change or a mock-location detection
// and consumed by the presence worker.
type PresenceEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	VenueID    string    `json:"venue_id"`
	EventID    string    `json:"event_id,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Message    string    `json:"message,omitempty"` // User-facing text for the push notification.
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishPresenceEvent publishes a presence event for async processing
	PublishPresenceEvent(ctx context.Context, event *PresenceEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

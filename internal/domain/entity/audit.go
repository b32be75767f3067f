package entity

import "time"

// AuditEventType classifies security audit entries.
type AuditEventType string

const (
	AuditTokenGeneration      AuditEventType = "token_generation"
	AuditQRValidation         AuditEventType = "qr_validation"
	AuditLocationVerification AuditEventType = "location_verification"
	AuditMockDetection        AuditEventType = "mock_detection"
)

// Audit outcomes
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeFailure = "failure"
)

// SecurityAuditEntry is an append-only record of one protocol outcome.
type SecurityAuditEntry struct {
	ID            string         `json:"id"` // ULID, sortable by creation time.
	EventType     AuditEventType `json:"event_type"`
	UserID        string         `json:"user_id"`
	VenueID       string         `json:"venue_id"`
	Nonce         string         `json:"nonce,omitempty"`
	Outcome       string         `json:"outcome"`
	FailureReason string         `json:"failure_reason,omitempty"`
	MockDetected  bool           `json:"mock_detected"`
	Accuracy      *float64       `json:"accuracy,omitempty"`
	Distance      *float64       `json:"distance,omitempty"`
	RequestID     string         `json:"request_id,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

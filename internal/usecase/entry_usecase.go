// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"venuegate/internal/domain/entity"
)

// --- Input DTOs ---

// Location is a client-reported position with its GPS accuracy in meters.
type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

// Sample converts the location to a sample captured at the given time.
func (l Location) Sample(capturedAt time.Time) entity.LocationSample {
	return entity.LocationSample{
		Latitude:   l.Latitude,
		Longitude:  l.Longitude,
		Accuracy:   l.Accuracy,
		CapturedAt: capturedAt,
	}
}

// IssueNonceInput defines the data required to request an entry nonce.
type IssueNonceInput struct {
	StaticQRData string
	Location     Location
	UserID       string
	SessionID    string // Optional client session binding.
}

// VerifyEntryInput defines the data required to redeem an entry nonce.
type VerifyEntryInput struct {
	Nonce    string
	Location Location
	UserID   string
}

// --- Output DTOs ---

// IssueNonceOutput is the result of a nonce request. Success false carries a rejection reason.
type IssueNonceOutput struct {
	Success      bool
	Nonce        string
	EventID      string
	VenueID      string
	ExpiresAt    time.Time
	VenueRules   string
	LocationTips string
	Reason       entity.RejectionReason
	Message      string
}

// VerifyEntryOutput is the result of a nonce redemption. Success false carries a rejection reason.
type VerifyEntryOutput struct {
	Success        bool
	EventID        string
	VenueID        string
	Reason         entity.RejectionReason
	Message        string
	RequiresRescan bool
}

// EntryUsecase defines the two-step QR check-in flow.
// Business rejections are returned in the output; errors are infrastructure failures only.
type EntryUsecase interface {
	// IssueNonce validates a static QR scan and mints a single-use entry token.
	IssueNonce(ctx context.Context, input *IssueNonceInput) (*IssueNonceOutput, error)

	// VerifyEntry consumes an entry token and opens the presence session.
	VerifyEntry(ctx context.Context, input *VerifyEntryInput) (*VerifyEntryOutput, error)
}

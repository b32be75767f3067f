package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "venuegate/internal/delivery/context"
	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"
	"venuegate/internal/domain/service"
	"venuegate/internal/util"
)

// auditLogger appends security audit entries on a best-effort basis.
// A failed write is logged and counted but never reaches the caller.
type auditLogger struct {
	auditRepo repository.AuditRepository
	timeout   time.Duration
	metrics   service.ProtocolMetrics
	logger    *slog.Logger
}

func newAuditLogger(auditRepo repository.AuditRepository, timeout time.Duration, metrics service.ProtocolMetrics, logger *slog.Logger) *auditLogger {
	return &auditLogger{
		auditRepo: auditRepo,
		timeout:   timeout,
		metrics:   metrics,
		logger:    logger,
	}
}

// record fills the entry id and request id and writes it once.
func (a *auditLogger) record(ctx context.Context, entry *entity.SecurityAuditEntry) {
	entry.ID = util.NewSortableID(entry.Timestamp)
	if entry.RequestID == "" {
		entry.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	}

	// The write outlives a caller that hangs up, bounded by its own timeout.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	if err := a.auditRepo.AppendEntry(writeCtx, entry); err != nil {
		a.metrics.ObserveAuditFailure(string(entry.EventType))
		deliverycontext.GetLoggerOrDefault(ctx, a.logger).Warn("Failed to append audit entry",
			slog.String("event_type", string(entry.EventType)),
			slog.String("venue_id", entry.VenueID),
			slog.String("outcome", entry.Outcome),
			slog.Any("error", err),
		)
	}
}

// auditSuccess builds a successful audit entry.
func auditSuccess(eventType entity.AuditEventType, userID, venueID, nonce string, now time.Time) *entity.SecurityAuditEntry {
	return &entity.SecurityAuditEntry{
		EventType: eventType,
		UserID:    userID,
		VenueID:   venueID,
		Nonce:     nonce,
		Outcome:   entity.AuditOutcomeSuccess,
		Timestamp: now,
	}
}

// auditFailure builds a failed audit entry carrying the rejection reason.
func auditFailure(eventType entity.AuditEventType, userID, venueID, nonce string, reason entity.RejectionReason, now time.Time) *entity.SecurityAuditEntry {
	return &entity.SecurityAuditEntry{
		EventType:     eventType,
		UserID:        userID,
		VenueID:       venueID,
		Nonce:         nonce,
		Outcome:       entity.AuditOutcomeFailure,
		FailureReason: string(reason),
		Timestamp:     now,
	}
}

// withLocation attaches the sample accuracy and measured distance.
func withLocation(entry *entity.SecurityAuditEntry, accuracy, distance float64, mock bool) *entity.SecurityAuditEntry {
	entry.Accuracy = &accuracy
	entry.Distance = &distance
	entry.MockDetected = mock

	return entry
}

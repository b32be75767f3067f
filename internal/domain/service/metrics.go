package service

import "time"

// ProtocolMetrics records protocol outcomes. Implementations must be safe for concurrent use.
type ProtocolMetrics interface {
	// ObserveEntry counts a nonce or verify outcome. Reason is "ok" on success.
	ObserveEntry(step, reason string)

	// ObserveTransition counts a presence state change.
	ObserveTransition(from, to, reason string)

	// ObserveAuditFailure counts an audit entry that could not be written.
	ObserveAuditFailure(eventType string)

	// ObserveStoreCall records one store operation, its attempts and its duration.
	ObserveStoreCall(operation string, attempts int, duration time.Duration, err error)
}

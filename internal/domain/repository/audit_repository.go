package repository

import (
	"context"

	"venuegate/internal/domain/entity"
)

// AuditRepository appends security audit entries. Entries are never updated or deleted.
type AuditRepository interface {
	AppendEntry(ctx context.Context, entry *entity.SecurityAuditEntry) error
}

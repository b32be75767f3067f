// Package service defines interfaces for domain services implemented by the infrastructure layer.
package service

import (
	"context"
)

// NotificationService delivers presence notices to device push tokens.
type NotificationService interface {
	// SendBatchNotification sends one notice to up to 500 tokens. It reports per-token
	// outcomes and the tokens the push provider no longer accepts.
	SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error)
}

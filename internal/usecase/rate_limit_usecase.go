package usecase

import "context"

// RateLimiter decides whether a user may call a protocol route now.
type RateLimiter interface {
	// Allow records one call of route by userID and reports whether it is within the limit.
	// Limiter failures allow the call.
	Allow(ctx context.Context, route, userID string) bool
}

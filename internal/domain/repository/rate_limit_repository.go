package repository

import (
	"context"
	"time"
)

// RateLimitRepository stores fixed-window request counters shared by every service instance.
type RateLimitRepository interface {
	// IncrementWindow adds one to the counter of key in the window starting at windowStart
	// and returns the new count. Counters expire on their own after ttl.
	IncrementWindow(ctx context.Context, key string, windowStart time.Time, ttl time.Duration) (int64, error)

	// CountWindow returns the counter of key in the window starting at windowStart, zero if absent.
	CountWindow(ctx context.Context, key string, windowStart time.Time) (int64, error)
}

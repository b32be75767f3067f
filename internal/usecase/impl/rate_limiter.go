package impl

import (
	"context"
	"log/slog"
	"time"

	"venuegate/config"
	deliverycontext "venuegate/internal/delivery/context"
	"venuegate/internal/domain/repository"
	"venuegate/internal/usecase"
)

// rateLimiter is a per-user sliding window limiter whose counters live in the shared store,
// so every service instance sees the same totals. The sliding count is estimated from the
// current fixed window plus the previous one weighted by how much of it still overlaps.
type rateLimiter struct {
	repo    repository.RateLimitRepository
	enabled bool
	window  time.Duration
	limits  map[string]int
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewRateLimiter creates the shared rate limiter.
func NewRateLimiter(cfg *config.Config, repo repository.RateLimitRepository, logger *slog.Logger) usecase.RateLimiter {
	return newRateLimiter(cfg, repo, logger)
}

func newRateLimiter(cfg *config.Config, repo repository.RateLimitRepository, logger *slog.Logger) *rateLimiter {
	timeout, _ := storeTimeouts(cfg)
	window := cfg.RateLimit.Window
	if window <= 0 {
		window = time.Minute
	}

	return &rateLimiter{
		repo:    repo,
		enabled: cfg.RateLimit.Enabled,
		window:  window,
		limits:  cfg.RateLimit.Limits,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Allow counts the call and compares the sliding estimate with the route limit.
func (l *rateLimiter) Allow(ctx context.Context, route, userID string) bool {
	limit, ok := l.limits[route]
	if !l.enabled || !ok || limit <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	now := l.now()
	current := now.Truncate(l.window)
	key := route + ":" + userID

	count, err := l.repo.IncrementWindow(ctx, key, current, 2*l.window)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, l.logger).Warn("Rate limiter unavailable, allowing request",
			slog.String("route", route),
			slog.Any("error", err),
		)

		return true
	}

	previous, err := l.repo.CountWindow(ctx, key, current.Add(-l.window))
	if err != nil {
		previous = 0
	}

	overlap := 1 - float64(now.Sub(current))/float64(l.window)
	estimate := float64(previous)*overlap + float64(count)

	return estimate <= float64(limit)
}

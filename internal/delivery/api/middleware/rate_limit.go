package middleware

import (
	"venuegate/internal/delivery/api/response"
	deliverycontext "venuegate/internal/delivery/context"
	"venuegate/internal/domain/entity"
	"venuegate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware applies the shared per-user limiter to protocol routes.
type RateLimitMiddleware struct {
	limiter usecase.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter usecase.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit answers 429 rate_limited once the caller exceeds the route limit. It must run after Authenticate.
func (m *RateLimitMiddleware) Limit(route string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := deliverycontext.GetUserID(c)
			if !ok {
				return next(c)
			}

			if !m.limiter.Allow(c.Request().Context(), route, userID) {
				return response.Rejected(c, entity.ReasonRateLimited, "", nil)
			}

			return next(c)
		}
	}
}

package http

import (
	applogger "FuelDesk/pkg/logger"
	"FuelDesk/pkg/ratelimit"

	"github.com/labstack/echo/v4"
)

// RateLimit rejects requests with 429 once the limiter denies the caller's key.
// Limiter failures let the request through and are logged.
func RateLimit(limiter ratelimit.Limiter, l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil {
				return next(c)
			}
			key := c.RealIP()
			ok, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				l.Warn("rate limiter unavailable", applogger.Error(err), applogger.String("key", key))
				return next(c)
			}
			if !ok {
				c.Response().Header().Set("Retry-After", "1")
				return TooManyRequestsError("Too many requests, slow down")
			}
			return next(c)
		}
	}
}

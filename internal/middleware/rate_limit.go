package middleware

import (
	"net/http"
	"time"

	"github.com/calebhoward/bastion/pkg/api"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds request rate limiting configuration. This is the
// transport-level throttle; the account lockout guard is a separate concern
// keyed by identity, not by IP.
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultAuthRateLimit returns the default limit for auth endpoints
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{RequestsPerMinute: 10}
}

// RateLimitByIP limits requests per client IP over a one-minute window.
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			api.WriteError(w, http.StatusTooManyRequests, api.CodeRateLimited, "rate limit exceeded")
		}),
	)
}

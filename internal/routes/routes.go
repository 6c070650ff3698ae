package routes

import (
	"github.com/calebhoward/bastion/internal/auth"
	"github.com/calebhoward/bastion/internal/handlers"
	"github.com/calebhoward/bastion/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	metricsHandler *handlers.MetricsHandler,
	tokenManager *auth.TokenManager,
	revocations auth.RevocationChecker,
	locks auth.LockChecker,
	gateConfig auth.GateConfig,
) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	router.Route("/api/v1", func(r chi.Router) {
		// Public routes - no authentication required
		r.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)

		// Protected routes - authentication required
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenManager, revocations, locks, gateConfig))

			r.Post("/auth/logout", authHandler.Logout)

			// Privileged telemetry routes
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole("admin"))
				r.Get("/system/metrics", metricsHandler.History)
			})
		})
	})
}

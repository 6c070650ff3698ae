package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calebhoward/bastion/internal/auth"
	"github.com/calebhoward/bastion/internal/config"
	"github.com/calebhoward/bastion/internal/guard"
	"github.com/calebhoward/bastion/internal/handlers"
	"github.com/calebhoward/bastion/internal/metrics"
	middlewareCustom "github.com/calebhoward/bastion/internal/middleware"
	"github.com/calebhoward/bastion/internal/routes"
	"github.com/calebhoward/bastion/internal/services"
	"github.com/calebhoward/bastion/internal/store"
	"github.com/calebhoward/bastion/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Shared expiring store (single source of truth for lockout counters and
	// revocation markers across all instances)
	sharedStore := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer sharedStore.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := sharedStore.Ping(pingCtx); err != nil {
		logger.Error("shared store unreachable at startup", slog.Any("error", err))
		pingCancel()
		os.Exit(1)
	}
	pingCancel()

	// Credential guard and revocation registry
	guardConfig := guard.Config{
		FailureThreshold: cfg.Guard.FailureThreshold,
		LockoutWindow:    cfg.Guard.LockoutWindow,
		FailOpen:         cfg.Guard.FailOpen,
	}
	credGuard := guard.NewCredentialGuard(sharedStore, guardConfig, logger)
	revocations := guard.NewRevocationRegistry(sharedStore, logger)

	// Token issuance
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)

	// User registry
	registry, err := users.NewRegistry()
	if err != nil {
		logger.Error("failed to initialize user registry", slog.Any("error", err))
		os.Exit(1)
	}
	if err := ensureAdminUser(registry, logger); err != nil {
		logger.Error("failed to seed admin user", slog.Any("error", err))
		os.Exit(1)
	}

	// Metrics sampler
	history := metrics.NewHistory(cfg.Metrics.HistoryCapacity)
	collector := metrics.NewHostCollector(cfg.Metrics.DiskPath)
	sampler := metrics.NewSampler(collector, history, logger, cfg.Metrics.SampleInterval)

	// Services and handlers
	authService := services.NewAuthService(registry, credGuard, revocations, tokenManager, logger)
	authHandler := handlers.NewAuthHandler(authService)
	metricsHandler := handlers.NewMetricsHandler(sampler)

	// CORS
	corsConfig := middlewareCustom.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	gateConfig := auth.GateConfig{FailClosed: cfg.Auth.GateFailClosed}
	routes.RegisterRoutes(router, authHandler, metricsHandler, tokenManager, revocations, credGuard.Strict(), gateConfig)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := sharedStore.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","store":"down"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","store":"up"}`))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start sampler once the process is ready to serve
	samplerCtx, samplerCancel := context.WithCancel(context.Background())
	defer samplerCancel()
	go sampler.Start(samplerCtx)

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	samplerCancel()
	sampler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureAdminUser seeds the privileged account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set
func ensureAdminUser(registry *users.Registry, logger *slog.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin user creation")
		return nil
	}

	if err := registry.Add(adminEmail, adminPassword, "admin"); err != nil {
		return err
	}

	logger.Info("admin user seeded")
	return nil
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/mantrahq/mantra_journal_app/internal/adapters/identity"
	"github.com/mantrahq/mantra_journal_app/internal/core/services"
	"github.com/mantrahq/mantra_journal_app/internal/handlers"
	"github.com/mantrahq/mantra_journal_app/internal/middleware"
	"github.com/mantrahq/mantra_journal_app/internal/platform/config"
	diskvrepo "github.com/mantrahq/mantra_journal_app/internal/repositories/storage/diskv"
)

// @title Mantra Journal API
// @version 1.0
// @description Backend for the mantra and journaling app.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Durable storage slots for journal entries and preferences
	store := diskvrepo.NewStore(cfg.DataDir)
	entryRepo := diskvrepo.NewEntryRepository(store)
	prefRepo := diskvrepo.NewPreferenceRepository(store)
	logger.Info("Durable storage initialized", slog.String("data_dir", cfg.DataDir))

	serviceContainer := services.NewServiceContainer(entryRepo, prefRepo, cfg)

	// Attach the identity provider; it initializes asynchronously and the
	// auth service reports loading until it is ready.
	switch cfg.AuthProvider {
	case "clerk":
		serviceContainer.Auth.Initialize(identity.NewClerkProvider(cfg.ClerkBaseURL, cfg.ClerkPublishableKey, logger))
		logger.Info("Using clerk identity provider", slog.String("base_url", cfg.ClerkBaseURL))
	default:
		serviceContainer.Auth.Initialize(identity.NewMemoryProvider(
			identity.WithSeedUser("demo@example.com", "demo-password", "Demo", "User"),
		))
		logger.Info("Using in-memory identity provider")
	}

	// Load the persisted entry collection into memory before serving. A
	// corrupt or unreadable snapshot must not prevent startup; the journal
	// serves an empty collection until the slot is rewritten.
	if err := serviceContainer.Journal.FetchEntries(context.Background()); err != nil {
		logger.Error("Failed to load journal entries, starting with an empty collection", slog.String("error", err.Error()))
	} else {
		logger.Info("Journal entries loaded", slog.Int("count", len(serviceContainer.Journal.Entries())))
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

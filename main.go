package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/auth"
	"github.com/draftforge/draft-engine/pkg/config"
	"github.com/draftforge/draft-engine/pkg/database"
	"github.com/draftforge/draft-engine/pkg/handlers"
	"github.com/draftforge/draft-engine/pkg/llm"
	"github.com/draftforge/draft-engine/pkg/middleware"
	"github.com/draftforge/draft-engine/pkg/repositories"
	"github.com/draftforge/draft-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Database),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Bool("ai_configured", cfg.AI.IsConfigured()))

	ctx := context.Background()

	// Connect to the database
	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.ConnectionString(),
		MaxConns:        cfg.Database.MaxConnections,
		MaxConnLifetime: time.Duration(cfg.Database.MaxConnLifetimeMinutes) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.Database.MaxConnIdleMinutes) * time.Minute,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database.ConnectionString(), cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Token verification
	verifier, err := auth.NewJWKSVerifier(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create token verifier", zap.Error(err))
	}
	defer verifier.Close()
	authService := auth.NewAuthService(verifier, logger)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	contentRepo := repositories.NewContentRepository(db)
	refinementRepo := repositories.NewRefinementRepository(db)

	// Text-generation client; nil when no model is configured so that
	// CRUD keeps working and generation endpoints return 503.
	var textClient llm.TextClient
	if cfg.AI.IsConfigured() {
		textClient, err = llm.NewTextClient(&llm.Config{
			Provider: cfg.AI.Provider,
			Endpoint: cfg.AI.BaseURL,
			Model:    cfg.AI.Model,
			APIKey:   cfg.AI.APIKey,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create text client", zap.Error(err))
		}
	} else {
		logger.Warn("No AI model configured; generation endpoints will be unavailable")
	}

	// Services
	userService := services.NewUserService(userRepo, logger)
	projectService := services.NewProjectService(projectRepo, contentRepo, refinementRepo, logger)
	generationService := services.NewGenerationService(
		projectRepo,
		contentRepo,
		refinementRepo,
		textClient,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
		cfg.AI.MaxRetries,
		logger,
	)

	authMiddleware := auth.NewMiddleware(authService, userService, logger)

	// Register handlers
	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, userService, logger).RegisterRoutes(mux)
	handlers.NewProjectsHandler(projectService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewGenerationHandler(generationService, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting draft-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newLogger builds the process logger for the given environment.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	if os.Getenv("LOG_LEVEL") == "debug" {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	}
	return zap.NewProduction()
}

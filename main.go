package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/critterdex/critterdex/pkg/auth"
	"github.com/critterdex/critterdex/pkg/catalog"
	"github.com/critterdex/critterdex/pkg/config"
	"github.com/critterdex/critterdex/pkg/database"
	"github.com/critterdex/critterdex/pkg/evolution"
	"github.com/critterdex/critterdex/pkg/handlers"
	"github.com/critterdex/critterdex/pkg/middleware"
	"github.com/critterdex/critterdex/pkg/repositories"
	"github.com/critterdex/critterdex/pkg/services"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("dataset", cfg.DatasetPath),
		zap.String("database", cfg.Database.Database))

	// The catalog is loaded and the graph built exactly once, before the
	// server accepts any request. Both are read-only afterwards, so request
	// handlers share them without locking.
	cat, err := catalog.LoadFile(cfg.DatasetPath)
	if err != nil {
		logger.Fatal("Failed to load species dataset", zap.Error(err))
	}
	graph := evolution.Build(cat.All())
	logger.Info("Species catalog loaded", zap.Int("species", cat.Len()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	// Wiring: everything is constructed here and passed down explicitly.
	userRepo := repositories.NewUserRepository(db)
	ownershipRepo := repositories.NewOwnershipRepository(db)

	authService := auth.NewAuthService(auth.Config{
		Secret:     cfg.Auth.JWTSecret,
		TokenTTL:   time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
		BcryptCost: cfg.Auth.BcryptCost,
	}, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	collectionService := services.NewCollectionService(graph, ownershipRepo, logger)
	catalogService := services.NewCatalogService(cat, graph, ownershipRepo, logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, userRepo, logger).RegisterRoutes(mux)
	handlers.NewCatalogHandler(catalogService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewCollectionHandler(collectionService, logger).RegisterRoutes(mux, authMiddleware)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting critterdex",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

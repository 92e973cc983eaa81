package main

import (
	"context"
	"flag"
	"log"
	"time"

	"mfg-backend/internal/cache"
	"mfg-backend/internal/config"
	"mfg-backend/internal/database"
	"mfg-backend/internal/db"
	"mfg-backend/internal/monitoring"
	"mfg-backend/internal/repositories"
	"mfg-backend/internal/services"
	"mfg-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()
	log.Printf("Connected to database: %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (active-status lookups will hit the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	// Uses embedded migrations for standalone binary operation
	log.Println("Running database migrations...")
	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	jobCardRepo := repositories.NewJobCardRepository(pool)
	dependencyRepo := repositories.NewJobCardDependencyRepository(pool)
	dependencyRepo.SetMaxChainDepth(cfg.Planning.MaxDependencyDepth)
	ospRepo := repositories.NewOSPTrackingRepository(pool)

	// Initialize services
	dependencyService := services.NewDependencyService(dependencyRepo, jobCardRepo)
	ospService := services.NewOSPService(ospRepo)

	// Serve the operational endpoints (health, metrics, planning views)
	monitoring.NewServer(pool, dependencyService, ospService, cfg.Server.Port).Start()
}

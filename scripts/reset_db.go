package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Planning Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("⚠️  WARNING: This will DELETE ALL PLANNING DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all OSP tracking lots")
	fmt.Println("  - Delete all job card dependencies")
	fmt.Println("  - Delete all job cards")
	fmt.Println("  - Reset all ID sequences")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	// Load environment variables
	godotenv.Load()

	// Database connection
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "mfg_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("🔄 Resetting database...")

	ctx := context.Background()

	// Delete in dependency order
	statements := []string{
		"DELETE FROM osp_tracking",
		"DELETE FROM job_card_dependencies",
		"DELETE FROM job_cards",
		"ALTER SEQUENCE osp_tracking_id_seq RESTART WITH 1",
		"ALTER SEQUENCE job_card_dependencies_id_seq RESTART WITH 1",
		"ALTER SEQUENCE job_cards_id_seq RESTART WITH 1",
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("Failed to run %q: %v", stmt, err)
		}
	}

	fmt.Println("✓ Database reset complete")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

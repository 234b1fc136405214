package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qadesk/qadesk/internal/api"
	"github.com/qadesk/qadesk/internal/config"
	"github.com/qadesk/qadesk/internal/database"
	"github.com/qadesk/qadesk/internal/generator"
	"github.com/qadesk/qadesk/internal/importer"
	"github.com/qadesk/qadesk/internal/service"
	"github.com/qadesk/qadesk/internal/telemetry"
)

func main() {
	showVersion := flag.Bool("version", false, "Display version information")
	flag.Parse()

	if *showVersion {
		log.Printf("qadesk v%s\n", Version)
		log.Printf("Git commit: %s\n", GitCommit)
		log.Printf("Build time: %s\n", BuildTime)
		return
	}

	if err := run(); err != nil {
		log.Printf("qadesk: %v", err)
		os.Exit(1)
	}
}

func run() error {
	log.Printf("Starting qadesk v%s (commit: %s)", Version, GitCommit)

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Version == "dev" && Version != "dev" {
		cfg.Version = Version
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing %s connection: %v", cfg.DatabaseType, err)
		} else {
			log.Printf("%s connection closed successfully", cfg.DatabaseType)
		}
	}()

	// Import seed data if seed source is provided
	if cfg.SeedFrom != "" {
		log.Printf("Importing data from %s...", cfg.SeedFrom)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		importerService := importer.NewService(db)
		if err := importerService.ImportFromPath(ctx, cfg.SeedFrom); err != nil {
			log.Printf("Failed to import seed data: %v", err)
		} else {
			log.Println("Data import completed successfully")
		}
		cancel()
	}

	gen := generator.New(generator.Options{
		FetchPages:        cfg.GeneratorFetchPages,
		FetchTimeout:      cfg.GeneratorFetchTimeout,
		MaxBodyBytes:      cfg.GeneratorMaxBodyBytes,
		AllowPrivateHosts: cfg.GeneratorAllowPrivateHosts,
	})
	qaService := service.NewQAService(db, cfg, gen)

	shutdownTelemetry, metrics, err := telemetry.InitMetrics(cfg.Version)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Printf("Failed to shutdown telemetry: %v", err)
		}
	}()

	server := api.NewServer(cfg, qaService, metrics)

	// Start server in a goroutine so it doesn't block signal handling
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}
	log.Println("Shutting down server...")

	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()

	if err := server.Shutdown(sctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
	return nil
}

// openDatabase connects to the configured backend
func openDatabase(cfg *config.Config) (database.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.DatabaseType {
	case config.DatabaseTypeMemory:
		return database.NewMemoryDB(), nil
	case config.DatabaseTypeMongoDB:
		db, err := database.NewMongoDB(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		return db, nil
	case config.DatabaseTypePostgreSQL:
		db, err := database.NewPostgreSQL(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("invalid database type: %s; supported types: %s, %s, %s",
			cfg.DatabaseType, config.DatabaseTypeMemory, config.DatabaseTypeMongoDB, config.DatabaseTypePostgreSQL)
	}
}

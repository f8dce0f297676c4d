package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/document-qa-api/internal/agent"
	"github.com/BerylCAtieno/document-qa-api/internal/config"
	"github.com/BerylCAtieno/document-qa-api/internal/db"
	"github.com/BerylCAtieno/document-qa-api/internal/extractor"
	"github.com/BerylCAtieno/document-qa-api/internal/llm"
	"github.com/BerylCAtieno/document-qa-api/internal/repository"
	"github.com/BerylCAtieno/document-qa-api/internal/router"
	"github.com/BerylCAtieno/document-qa-api/internal/services"
	"github.com/BerylCAtieno/document-qa-api/internal/storage"
	"github.com/BerylCAtieno/document-qa-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabaseFile)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.DatabaseFile); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Object storage
	store, err := storage.NewS3Storage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize S3 storage", "error", err)
	}

	// Extractor registry, model client, QA agent
	reader := extractor.NewRegistry()
	client := llm.NewOpenRouterClient(cfg.OpenRouterAPIKey, "", logger)
	qa := agent.New(client, reader, cfg.OpenRouterModel)

	// Document service
	docRepo := repository.NewRepository(database)
	docService := services.NewService(docRepo, store, qa, reader, cfg, logger)

	// Setup HTTP router
	handler := router.NewRouter(docService, qa, cfg.OpenRouterModels, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

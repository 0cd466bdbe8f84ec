package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/eventspark/internal/config"
	"github.com/joshua-takyi/eventspark/internal/connect"
	"github.com/joshua-takyi/eventspark/internal/container"
	"github.com/joshua-takyi/eventspark/internal/models"
	"github.com/joshua-takyi/eventspark/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting EventSpark API server", "environment", cfg.Environment)

	mongoClient, err := connect.MongoDBConnect(context.Background(), cfg.MongoDBURI, cfg.MongoDBPassword)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	err = models.MongodbNewRepo(mongoClient, cfg.MongoDBDatabase).EnsureIndexes(indexCtx)
	cancelIndexes()
	if err != nil {
		logger.Error("Failed to create indexes", "error", err)
		_ = connect.MongoDBDisconnect(mongoClient)
		os.Exit(1)
	}

	appContainer := container.NewContainer(cfg, logger, mongoClient)
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := connect.MongoDBDisconnect(mongoClient); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

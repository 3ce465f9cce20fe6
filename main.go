package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkchat/backend"
	"inkchat/config"
	"inkchat/session"
	"inkchat/web"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	client := backend.New(cfg.BackendURL, cfg.BackendTimeout, logger)

	// Sessions that expire while still holding a document leave an orphan
	// on the backend; reclaim it best-effort on eviction.
	sessions := session.NewStore(cfg.SessionTTL, cfg.SessionSweepInterval, func(documentID string) {
		reapCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := client.DeleteDocument(reapCtx, documentID); err != nil {
			logger.Warn("Failed to delete document for expired session",
				zap.Error(err),
				zap.String("document", documentID))
		}
	}, logger)

	webServer, err := web.NewServer(cfg, logger, sessions, client)
	if err != nil {
		logger.Fatal("Failed to initialize web server", zap.Error(err))
	}

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	port := fmt.Sprintf(":%d", cfg.WebPort)
	logger.Info("Starting InkChat web client", zap.String("port", port), zap.String("backend", cfg.BackendURL))
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}

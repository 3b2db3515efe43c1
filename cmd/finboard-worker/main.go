package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finboard/internal/amqp"
	"finboard/internal/config"
	applog "finboard/internal/log"
	gsheet "finboard/internal/sheets/google"
	"finboard/internal/storage"
	"finboard/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: "finboard-worker",
	})
	applog.SetDefault(logger)

	logger.Info("Starting finboard-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "backend", cfg.Backend)
		os.Exit(1)
	}
	defer store.Close()

	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.SheetsSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mirrorWorker := worker.NewMirrorWorker(store, sheetsClient)

	go func() {
		if err := amqpClient.Consume(ctx, mirrorWorker.HandleEvent); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Event consumption failed", "error", err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give the in-flight event a moment to finish before the process exits.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Backend == "postgres" {
		return storage.NewPostgresRepository(context.Background(), cfg.PostgresURL)
	}
	return storage.NewSQLiteRepository(cfg.SQLiteDBPath)
}

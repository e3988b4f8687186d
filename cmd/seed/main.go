package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"conselhoreal/internal/config"
	"conselhoreal/internal/db"
	"conselhoreal/internal/logging"
	"conselhoreal/internal/repository"
)

// Seeds an empty remote backend with the sample dataset and its credentials.
func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.BackendURL == "" {
		logger.Fatal("BACKEND_URL is required to seed the backend")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	gormDB, err := db.Open(ctx, cfg.BackendDriver, cfg.BackendURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close(gormDB) }()
	logger.Info("connected to database", zap.String("driver", cfg.BackendDriver))

	if err := repository.Migrate(gormDB); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations completed")

	seeded, err := repository.Seed(ctx, gormDB, repository.SampleDataset(time.Now()))
	if err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}
	if !seeded {
		logger.Info("database already has users, nothing seeded")
		return
	}
	logger.Info("seed completed successfully")
}

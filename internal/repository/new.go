package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"conselhoreal/internal/config"
	"conselhoreal/internal/db"
	"conselhoreal/internal/metrics"
)

// New picks the strategy once for the lifetime of the process. Remote mode needs
// both backend values configured, a reachable database and a successful
// migration; anything else falls back to local mode with a warning.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (Repository, error) {
	seed := SampleDataset(time.Now())

	if !cfg.RemoteConfigured() {
		logger.Warn("backend not configured, running in local mode")
		return NewMemory(seed)
	}

	gdb, err := db.Open(ctx, cfg.BackendDriver, cfg.BackendURL, logger)
	if err != nil {
		logger.Warn("backend unreachable, running in local mode", zap.Error(err))
		return NewMemory(seed)
	}
	if err := Migrate(gdb); err != nil {
		logger.Warn("backend migration failed, running in local mode", zap.Error(err))
		_ = db.Close(gdb)
		return NewMemory(seed)
	}

	logger.Info("running in remote mode", zap.String("driver", cfg.BackendDriver))
	return NewRemote(gdb, seed, logger, m)
}

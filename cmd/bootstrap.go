package cmd

import (
	"context"
	"fmt"

	"ahb-manager/core/config"
	"ahb-manager/core/database"
	"ahb-manager/core/logger"
	"ahb-manager/core/store"

	"go.uber.org/zap"
)

// bootstrap bundles what every one-shot command needs.
type bootstrap struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadBootstrap() (*bootstrap, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &bootstrap{cfg: cfg, logger: logg}, nil
}

// openStore connects to the row store and migrates its tables.
func (r *bootstrap) openStore(ctx context.Context) (*store.Store, error) {
	db, err := database.Connect(r.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	st := store.New(db, r.cfg.Ingest.BatchSize)
	if err := st.Migrate(ctx); err != nil {
		return nil, err
	}
	r.logger.Debug("Row store ready", zap.String("driver", r.cfg.Database.Driver))
	return st, nil
}

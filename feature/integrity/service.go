package integrity

import (
	"context"

	"ahb-manager/core/storage"
	"ahb-manager/core/store"
	"ahb-manager/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new integrity service. db may be nil when no row store is configured.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		logger: logger,
		db:     db,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckSchema compares the row store tables with the store models.
func (s *Service) CheckSchema(ctx context.Context) (*checks.SchemaReport, error) {
	var db *gorm.DB
	if s.db != nil {
		db = s.db.WithContext(ctx)
	}
	return checks.CheckSchema(db, store.Models())
}

package diff

import (
	engine "ahb-manager/core/diff"
	"ahb-manager/core/storage"
	"ahb-manager/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Diff feature. A nil store disables the feature.
func NewFeature(st *store.Store, cache *engine.Cache, client storage.Client, bucket string, logger *zap.Logger) *Feature {
	f := &Feature{}
	if st != nil {
		f.service = NewService(st, cache, client, bucket, logger)
		f.handler = NewHandler(f.service)
	}
	return f
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "diff"
}

// IsEnabled reports whether a row store is available.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}

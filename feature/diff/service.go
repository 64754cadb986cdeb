package diff

import (
	"context"
	"errors"
	"fmt"

	engine "ahb-manager/core/diff"
	"ahb-manager/core/flatten"
	"ahb-manager/core/formatversion"
	"ahb-manager/core/logger"
	"ahb-manager/core/storage"
	"ahb-manager/core/store"

	"go.uber.org/zap"
)

// Service compares stored versions.
type Service struct {
	store  *store.Store
	cache  *engine.Cache
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new diff service. client may be nil when exports are not needed.
func NewService(st *store.Store, cache *engine.Cache, client storage.Client, bucket string, logger *zap.Logger) *Service {
	if cache == nil {
		cache = engine.NewCache(0)
	}
	return &Service{
		store:  st,
		cache:  cache,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

type loadFunc func(ctx context.Context, formatVersion, scope string) ([]flatten.Row, error)

// DiffAHB compares one Prüfidentifikator across two format versions.
func (s *Service) DiffAHB(ctx context.Context, oldFV, newFV, pruefi string) (*engine.Result, error) {
	return s.run(ctx, engine.AHBAdapter{}, oldFV, newFV, pruefi, s.store.LoadAHBLines)
}

// DiffMIG compares one format across two format versions.
func (s *Service) DiffMIG(ctx context.Context, oldFV, newFV, format string) (*engine.Result, error) {
	return s.run(ctx, engine.MIGAdapter{}, oldFV, newFV, format, s.store.LoadMIGLines)
}

func (s *Service) run(ctx context.Context, adapter engine.Adapter, oldFV, newFV, scope string, load loadFunc) (*engine.Result, error) {
	for _, fv := range []string{oldFV, newFV} {
		if err := formatversion.Validate(fv); err != nil {
			return nil, err
		}
	}

	oldRows, oldErr := s.rows(ctx, adapter.Name(), oldFV, scope, load)
	newRows, newErr := s.rows(ctx, adapter.Name(), newFV, scope, load)
	for _, err := range []error{oldErr, newErr} {
		if err != nil && !errors.Is(err, store.ErrScopeNotFound) {
			return nil, err
		}
	}
	// A scope present on one side only diffs as entirely added or deleted.
	if oldErr != nil && newErr != nil {
		return nil, fmt.Errorf("%w: %s %s in %s and %s", store.ErrScopeNotFound, adapter.Name(), scope, oldFV, newFV)
	}

	result := engine.Diff(adapter, engine.Versions{Scope: scope, Old: oldFV, New: newFV}, oldRows, newRows)
	logger.ForScope(s.logger, result.Kind, newFV, scope).Info("Diff completed",
		zap.String("old", oldFV),
		zap.Int("added", result.Summary.Added),
		zap.Int("deleted", result.Summary.Deleted),
		zap.Int("modified", result.Summary.Modified),
		zap.Int("unchanged", result.Summary.Unchanged))
	return result, nil
}

func (s *Service) rows(ctx context.Context, kind, fv, scope string, load loadFunc) ([]flatten.Row, error) {
	return s.cache.Rows(ctx, engine.Key(kind, fv, scope), func(ctx context.Context) ([]flatten.Row, error) {
		return load(ctx, fv, scope)
	})
}

// Save stores the result in the row store and returns the report id.
func (s *Service) Save(ctx context.Context, result *engine.Result) (string, error) {
	return s.store.SaveDiff(ctx, result)
}

// Export encodes the result and uploads it to diff/<kind>_<scope>_<old>_<new>.<ext>. It returns the object key.
func (s *Service) Export(ctx context.Context, result *engine.Result, format string) (string, error) {
	if s.client == nil {
		return "", errors.New("storage is not configured")
	}
	enc, err := EncoderFor(format)
	if err != nil {
		return "", err
	}
	data, err := enc.Encode(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode diff: %w", err)
	}

	key := ExportKey(result, enc.Extension)
	if err := storage.Upload(ctx, s.client, s.bucket, key, enc.ContentType, data); err != nil {
		return "", err
	}
	s.logger.Info("Diff exported", zap.String("key", key), zap.Int("bytes", len(data)))
	return key, nil
}

// ExportKey returns the object key of an exported result.
func ExportKey(result *engine.Result, ext string) string {
	return fmt.Sprintf("%s%s_%s_%s_%s.%s", storage.PrefixDiff, result.Kind, result.Scope, result.OldFormatVersion, result.NewFormatVersion, ext)
}

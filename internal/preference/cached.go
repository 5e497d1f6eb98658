// internal/preference/cached.go
package preference

import (
	"context"

	"food-recommender/internal/common/logger"
	"food-recommender/internal/models"
)

// CachedStore reads through a Redis cache in front of the durable store. Writes go to the durable
// store first and then invalidate the cached copy. Cache failures are logged and never fail a call.
type CachedStore struct {
	primary Store
	cache   *RedisStore
	logger  logger.Logger
}

func NewCachedStore(primary Store, cache *RedisStore, log logger.Logger) *CachedStore {
	return &CachedStore{
		primary: primary,
		cache:   cache,
		logger:  log.WithFields(map[string]interface{}{"component": "preference"}),
	}
}

func (s *CachedStore) Get(ctx context.Context, userID string) (*models.UserPreferences, error) {
	prefs, err := s.cache.Get(ctx, userID)
	if err == nil && prefs != nil {
		return prefs, nil
	}
	if err != nil {
		s.logger.Warn("preference cache read failed", map[string]interface{}{"userId": userID, "error": err})
	}

	prefs, err = s.primary.Get(ctx, userID)
	if err != nil || prefs == nil {
		return prefs, err
	}

	if err := s.cache.Put(ctx, prefs); err != nil {
		s.logger.Warn("preference cache write failed", map[string]interface{}{"userId": userID, "error": err})
	}
	return prefs, nil
}

func (s *CachedStore) Put(ctx context.Context, prefs *models.UserPreferences) error {
	if err := s.primary.Put(ctx, prefs); err != nil {
		return err
	}
	s.invalidate(ctx, prefs.UserID)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, userID string) error {
	if err := s.primary.Delete(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *CachedStore) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("preference cache invalidation failed", map[string]interface{}{"userId": userID, "error": err})
	}
}

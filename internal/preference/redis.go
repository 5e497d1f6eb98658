// internal/preference/redis.go
package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"food-recommender/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "user:preferences:"

// RedisStore keeps profiles as JSON strings. A zero TTL keeps them forever.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(userID string) string {
	return keyPrefix + userID
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*models.UserPreferences, error) {
	val, err := s.client.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences %s: %w", userID, err)
	}

	var prefs models.UserPreferences
	if err := json.Unmarshal([]byte(val), &prefs); err != nil {
		return nil, fmt.Errorf("decode preferences %s: %w", userID, err)
	}
	return &prefs, nil
}

func (s *RedisStore) Put(ctx context.Context, prefs *models.UserPreferences) error {
	if err := validate(prefs); err != nil {
		return err
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences %s: %w", prefs.UserID, err)
	}
	if err := s.client.Set(ctx, key(prefs.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set preferences %s: %w", prefs.UserID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("delete preferences %s: %w", userID, err)
	}
	return nil
}

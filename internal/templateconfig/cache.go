package templateconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cacheBackend is the part of the Redis client the cache uses
type cacheBackend interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// notFoundMarker caches the absence of a config so unknown shops do not hit the store
const notFoundMarker = "null"

// CachedRepository puts Redis in front of another repository.
// Redis failures are logged and the underlying repository is used.
type CachedRepository struct {
	next   Repository
	client cacheBackend
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRepository wraps next with a Redis cache
func NewCachedRepository(next Repository, client cacheBackend, ttl time.Duration, logger *zap.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func cacheKey(shop string) string {
	return fmt.Sprintf("invoice:template-config:%s", shop)
}

func (r *CachedRepository) GetByShop(ctx context.Context, shop string) (*ShopTemplateConfig, error) {
	key := cacheKey(shop)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, ErrNotFound
		}
		var cfg ShopTemplateConfig
		if err := json.Unmarshal(data, &cfg); err == nil {
			return &cfg, nil
		}
		r.logger.Warn("Discarding unreadable cached template config", zap.String("shop", shop))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Template config cache unavailable", zap.String("shop", shop), zap.Error(err))
	}

	cfg, err := r.next.GetByShop(ctx, shop)
	switch {
	case errors.Is(err, ErrNotFound):
		r.store(ctx, key, []byte(notFoundMarker))
		return nil, err
	case err != nil:
		return nil, err
	}

	if encoded, err := json.Marshal(cfg); err == nil {
		r.store(ctx, key, encoded)
	}
	return cfg, nil
}

func (r *CachedRepository) store(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.logger.Warn("Failed to cache template config", zap.String("key", key), zap.Error(err))
	}
}

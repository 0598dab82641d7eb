// internal/repository/cache.go
package repository

import (
	"context"
	"encoding/json"
	"time"

	"cardapio-service/internal/common/database"
	"cardapio-service/internal/common/logger"
	"cardapio-service/internal/menu"
)

const menuPoolKey = "menu:items"

// CachedMenuStore fronts a MenuStore with a Redis read-through cache on the
// pool listing. Writes go straight to the store and invalidate the cache.
type CachedMenuStore struct {
	store  MenuStore
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

// NewCachedMenuStore wraps store with a read-through cache.
func NewCachedMenuStore(store MenuStore, redis *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedMenuStore {
	return &CachedMenuStore{
		store:  store,
		redis:  redis,
		ttl:    ttl,
		logger: log,
	}
}

// List serves the pool from cache when possible. Cache failures are logged
// and treated as misses: the store remains the source of truth.
func (c *CachedMenuStore) List(ctx context.Context) ([]menu.Item, error) {
	if cached, err := c.redis.Get(ctx, menuPoolKey); err == nil {
		var items []menu.Item
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			c.logger.Debug("Menu pool cache hit", map[string]interface{}{
				"items": len(items),
			})
			return items, nil
		}
		c.invalidate(ctx)
	}

	items, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(items); err == nil {
		if err := c.redis.Set(ctx, menuPoolKey, encoded, c.ttl); err != nil {
			c.logger.Warn("Failed to cache menu pool", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return items, nil
}

func (c *CachedMenuStore) GetByID(ctx context.Context, id string) (*menu.Item, error) {
	return c.store.GetByID(ctx, id)
}

func (c *CachedMenuStore) Create(ctx context.Context, item menu.Item) (*menu.Item, error) {
	created, err := c.store.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return created, nil
}

func (c *CachedMenuStore) Update(ctx context.Context, item menu.Item) (*menu.Item, error) {
	updated, err := c.store.Update(ctx, item)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return updated, nil
}

func (c *CachedMenuStore) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedMenuStore) invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, menuPoolKey); err != nil {
		c.logger.Warn("Failed to invalidate menu pool cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

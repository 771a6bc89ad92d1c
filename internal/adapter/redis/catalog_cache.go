package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	catalogCacheKey = "catalog:products"
)

type catalogCache struct {
	client *redis.Client
}

func NewCatalogCache(client *redis.Client) repository.CatalogCache {
	return &catalogCache{
		client: client,
	}
}

func (c *catalogCache) Get(ctx context.Context) ([]entity.Product, error) {
	val, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get catalog from redis: %w", err)
	}

	var products []entity.Product
	if err := json.Unmarshal(val, &products); err != nil {
		_ = c.Delete(ctx)
		return nil, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return products, nil
}

func (c *catalogCache) Set(ctx context.Context, products []entity.Product, ttl time.Duration) error {
	if products == nil {
		return errors.New("cannot cache a nil catalog")
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := c.client.Set(ctx, catalogCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set catalog to redis: %w", err)
	}
	return nil
}

func (c *catalogCache) Delete(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to delete catalog from redis: %w", err)
	}
	return nil
}

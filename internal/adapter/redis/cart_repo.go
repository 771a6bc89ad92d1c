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

// cartRepository stores each slot under its own key as the plain JSON array of items.
type cartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository keeps slots forever when ttl is zero.
func NewCartRepository(client *redis.Client, ttl time.Duration) repository.CartRepository {
	return &cartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *cartRepository) Load(ctx context.Context, slot string) ([]entity.CartItem, error) {
	val, err := r.client.Get(ctx, slot).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart slot %s from redis: %w", slot, err)
	}

	var items []entity.CartItem
	if err := json.Unmarshal(val, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart slot %s: %w: %w", slot, repository.ErrCorrupted, err)
	}
	return items, nil
}

func (r *cartRepository) Save(ctx context.Context, slot string, items []entity.CartItem) error {
	if slot == "" {
		return errors.New("cannot save cart to an empty slot name")
	}
	if items == nil {
		items = []entity.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart slot %s: %w", slot, err)
	}

	if err := r.client.Set(ctx, slot, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart slot %s to redis: %w", slot, err)
	}
	return nil
}

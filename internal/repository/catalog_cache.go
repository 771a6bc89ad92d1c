package repository

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
)

type CatalogCache interface {
	Get(ctx context.Context) ([]entity.Product, error)
	Set(ctx context.Context, products []entity.Product, ttl time.Duration) error
	Delete(ctx context.Context) error
}

package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
)

// CartRepository is a durable, named cart slot. Load returns ErrNotFound for a slot that
// was never written and ErrCorrupted when the stored payload cannot be decoded.
type CartRepository interface {
	Load(ctx context.Context, slot string) ([]entity.CartItem, error)
	Save(ctx context.Context, slot string, items []entity.CartItem) error
}

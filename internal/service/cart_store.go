package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/repository"
)

const (
	defaultCartSlot = "cart"
	persistTimeout  = 5 * time.Second

	opAdd    = "add"
	opUpdate = "update"
	opRemove = "remove"
	opClear  = "clear"
)

type CartStoreConfig struct {
	Slot string
}

// CartStore owns the shopper's cart. Every mutation is applied in memory first and then
// written wholesale to the durable slot. All methods are safe for concurrent use.
type CartStore struct {
	mu      sync.Mutex
	cart    *entity.Cart
	repo    repository.CartRepository
	slot    string
	log     logger.Logger
	metrics *metrics.MetricsManager
}

// NewCartStore reads the slot once. A missing slot starts an empty cart, and so does an
// unreadable one after the failure is logged.
func NewCartStore(
	ctx context.Context,
	repo repository.CartRepository,
	log logger.Logger,
	m *metrics.MetricsManager,
	cfg CartStoreConfig,
) *CartStore {
	slot := cfg.Slot
	if slot == "" {
		slot = defaultCartSlot
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	s := &CartStore{
		cart:    entity.NewCart(),
		repo:    repo,
		slot:    slot,
		log:     log,
		metrics: m,
	}
	s.load(ctx)
	return s
}

func (s *CartStore) load(ctx context.Context) {
	items, err := s.repo.Load(ctx, s.slot)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debugf("Cart slot %q is empty, starting with an empty cart", s.slot)
			return
		}
		s.log.Warnf("Failed to load cart from slot %q, starting with an empty cart: %v", s.slot, err)
		return
	}
	s.cart = entity.RestoreCart(items)
	s.log.Infof("Cart restored from slot %q: %d lines, %d units", s.slot, len(s.cart.Items), s.cart.ItemsCount())
}

// persist must be called with mu held. The write outlives a cancelled caller because the
// in-memory change has already been applied.
func (s *CartStore) persist(ctx context.Context, op string) error {
	s.metrics.CartMutation(op, s.cart.ItemsCount())

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.repo.Save(saveCtx, s.slot, s.cart.Snapshot()); err != nil {
		s.metrics.CartPersistFailed()
		s.log.Warnf("Cart %s applied but not persisted to slot %q: %v", op, s.slot, err)
		return fmt.Errorf("%w: %w", ErrCartNotPersisted, err)
	}
	return nil
}

// AddToCart merges quantity into the product's line, appending a new line for an unseen
// product. Quantities below 1 count as 1. Stock is not checked.
func (s *CartStore) AddToCart(ctx context.Context, product entity.Product, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.AddItem(product, quantity)
	s.log.Debugf("Added product %s (qty %d) to cart", product.ID, quantity)
	return s.persist(ctx, opAdd)
}

// UpdateQuantity sets an absolute quantity. Zero or less removes the line.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.UpdateItemQuantity(productID, quantity)
	return s.persist(ctx, opUpdate)
}

func (s *CartStore) RemoveFromCart(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.RemoveItem(productID)
	return s.persist(ctx, opRemove)
}

func (s *CartStore) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	return s.persist(ctx, opClear)
}

func (s *CartStore) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *CartStore) ItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemsCount()
}

func (s *CartStore) Items() []entity.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// Snapshot returns a detached copy of the whole cart, consistent across items and totals.
func (s *CartStore) Snapshot() *entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &entity.Cart{Items: s.cart.Snapshot()}
}

// Checkout hands the current items to fn and clears the cart afterwards whatever fn
// returned. The lock is held for the whole call so no mutation interleaves. The result
// joins fn's error with the persistence error, if any.
func (s *CartStore) Checkout(ctx context.Context, fn func(items []entity.CartItem) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return ErrEmptyCart
	}
	fnErr := fn(s.cart.Snapshot())
	s.cart.Clear()
	return errors.Join(fnErr, s.persist(ctx, opClear))
}

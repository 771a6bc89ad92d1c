package grpc

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const msgNotPersisted = "Cart updated, but it could not be saved"

type CartGRPCHandler struct {
	catalog *service.CatalogService
	cart    *service.CartStore
	log     logger.Logger
}

func NewCartGRPCHandler(catalog *service.CatalogService, cart *service.CartStore, log logger.Logger) *CartGRPCHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &CartGRPCHandler{
		catalog: catalog,
		cart:    cart,
		log:     log,
	}
}

func (h *CartGRPCHandler) reply(notice *entity.Notice) *CartReply {
	snapshot := h.cart.Snapshot()
	return &CartReply{
		Items:      snapshot.Items,
		ItemsCount: snapshot.ItemsCount(),
		Total:      snapshot.Total(),
		Notice:     notice,
	}
}

// afterMutation keeps a change that only failed to persist and reports it as a warning.
func (h *CartGRPCHandler) afterMutation(method string, err error) (*CartReply, error) {
	if err == nil {
		return h.reply(nil), nil
	}
	if errors.Is(err, service.ErrCartNotPersisted) {
		h.log.Warnf("%s: cart not persisted: %v", method, err)
		return h.reply(entity.NewNotice(entity.NoticeWarning, msgNotPersisted)), nil
	}
	h.log.Errorf("%s failed: %v", method, err)
	return nil, status.Errorf(codes.Internal, "cart update failed: %v", err)
}

func (h *CartGRPCHandler) GetCart(ctx context.Context, req *GetCartRequest) (*CartReply, error) {
	return h.reply(nil), nil
}

func (h *CartGRPCHandler) AddItem(ctx context.Context, req *AddItemRequest) (*CartReply, error) {
	if req.ProductID == "" {
		return nil, status.Error(codes.InvalidArgument, "product_id is required")
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity > entity.MaxLineQuantity {
		return nil, status.Errorf(codes.InvalidArgument, "quantity must not exceed %d", entity.MaxLineQuantity)
	}

	product, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		h.log.Warnf("AddItem failed for product %s: %v", req.ProductID, err)
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return nil, status.Errorf(codes.NotFound, "product %s not found", req.ProductID)
		case errors.Is(err, service.ErrCatalogUnavailable):
			return nil, status.Error(codes.Unavailable, "catalog is unavailable")
		}
		return nil, status.Errorf(codes.Internal, "failed to add item to cart: %v", err)
	}

	return h.afterMutation("AddItem", h.cart.AddToCart(ctx, product, quantity))
}

func (h *CartGRPCHandler) UpdateQuantity(ctx context.Context, req *UpdateQuantityRequest) (*CartReply, error) {
	if req.ProductID == "" {
		return nil, status.Error(codes.InvalidArgument, "product_id is required")
	}
	if req.Quantity > entity.MaxLineQuantity {
		return nil, status.Errorf(codes.InvalidArgument, "quantity must not exceed %d", entity.MaxLineQuantity)
	}
	return h.afterMutation("UpdateQuantity", h.cart.UpdateQuantity(ctx, req.ProductID, req.Quantity))
}

func (h *CartGRPCHandler) RemoveItem(ctx context.Context, req *RemoveItemRequest) (*CartReply, error) {
	if req.ProductID == "" {
		return nil, status.Error(codes.InvalidArgument, "product_id is required")
	}
	return h.afterMutation("RemoveItem", h.cart.RemoveFromCart(ctx, req.ProductID))
}

func (h *CartGRPCHandler) ClearCart(ctx context.Context, req *ClearCartRequest) (*CartReply, error) {
	return h.afterMutation("ClearCart", h.cart.ClearCart(ctx))
}

package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/service"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, cartResponse{Cart: newCartView(h.cart.Snapshot(), h.currency)})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		h.writeError(w, http.StatusBadRequest, codeBadRequest, "product_id is required")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity > entity.MaxLineQuantity {
		h.writeError(w, http.StatusBadRequest, codeBadRequest, msgQuantityTooLarge)
		return
	}

	product, err := h.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		status, code := http.StatusInternalServerError, codeInternal
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			status, code = http.StatusNotFound, codeNotFound
		case errors.Is(err, service.ErrCatalogUnavailable):
			status, code = http.StatusServiceUnavailable, codeCatalogUnavailable
		}
		h.log.Warnf("Add to cart failed for product %s: %v", req.ProductID, err)
		h.writeError(w, status, code, msgAddFailed)
		return
	}

	err = h.cart.AddToCart(r.Context(), product, quantity)
	notice, err := mutationNotice(err, addedNotice(product.Name, quantity))
	if err != nil {
		h.log.Errorf("Add to cart failed for product %s: %v", product.ID, err)
		h.writeError(w, http.StatusInternalServerError, codeInternal, msgAddFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, cartResponse{Cart: newCartView(h.cart.Snapshot(), h.currency), Notice: notice})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		h.writeError(w, http.StatusBadRequest, codeBadRequest, "quantity is required")
		return
	}
	if *req.Quantity > entity.MaxLineQuantity {
		h.writeError(w, http.StatusBadRequest, codeBadRequest, msgQuantityTooLarge)
		return
	}

	notice, err := mutationNotice(h.cart.UpdateQuantity(r.Context(), id, *req.Quantity), nil)
	h.respondMutation(w, r, notice, err)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	notice, err := mutationNotice(h.cart.RemoveFromCart(r.Context(), id), nil)
	h.respondMutation(w, r, notice, err)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	notice, err := mutationNotice(h.cart.ClearCart(r.Context()), nil)
	h.respondMutation(w, r, notice, err)
}

func (h *Handler) respondMutation(w http.ResponseWriter, r *http.Request, notice *entity.Notice, err error) {
	if err != nil {
		h.log.Errorf("Cart mutation %s %s failed: %v", r.Method, r.URL.Path, err)
		h.writeError(w, http.StatusInternalServerError, codeInternal, "cart update failed")
		return
	}
	h.writeJSON(w, http.StatusOK, cartResponse{Cart: newCartView(h.cart.Snapshot(), h.currency), Notice: notice})
}

// addedNotice is the toast after a successful add: "<qty>x <name> added to cart!" for more
// than one unit.
func addedNotice(name string, quantity int) *entity.Notice {
	if quantity > 1 {
		return entity.NewNotice(entity.NoticeInfo, fmt.Sprintf("%dx %s added to cart!", quantity, name))
	}
	return entity.NewNotice(entity.NoticeInfo, name+" added to cart!")
}

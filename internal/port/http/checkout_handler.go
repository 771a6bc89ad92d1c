package http

import (
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/service"
)

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	result, err := h.checkout.Checkout(r.Context())
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, result)
	case errors.Is(err, service.ErrEmptyCart):
		h.writeError(w, http.StatusConflict, codeEmptyCart, msgCheckoutNoItems)
	case errors.Is(err, service.ErrCartNotPersisted) && result != nil:
		h.writeJSON(w, http.StatusOK, result)
	default:
		h.log.Errorf("Checkout failed: %v", err)
		h.writeError(w, http.StatusBadGateway, codeHandOffFailed, "checkout hand-off failed")
	}
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/service"
)

const (
	maxRequestBody = 1 << 20

	codeBadRequest         = "bad_request"
	codeNotFound           = "not_found"
	codeEmptyCart          = "empty_cart"
	codeCatalogUnavailable = "catalog_unavailable"
	codeHandOffFailed      = "handoff_failed"
	codeInternal           = "internal"

	msgAddFailed        = "Failed to add to cart"
	msgNotPersisted     = "Cart updated, but it could not be saved"
	msgCheckoutNoItems  = "Your cart is empty"
	msgQuantityTooLarge = "quantity must not exceed 1000000"
)

type Handler struct {
	catalog  *service.CatalogService
	cart     *service.CartStore
	checkout *service.CheckoutService
	currency string
	log      logger.Logger
}

func NewHandler(
	catalog *service.CatalogService,
	cart *service.CartStore,
	checkout *service.CheckoutService,
	currency string,
	log logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Handler{
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		currency: currency,
		log:      log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.log.Debugf("Invalid request body for %s %s: %v", r.Method, r.URL.Path, err)
		h.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return false
	}
	return true
}

// mutationNotice maps a cart mutation error onto the toast shown to the shopper. A nil
// notice with a nil error means the mutation succeeded silently.
func mutationNotice(err error, success *entity.Notice) (*entity.Notice, error) {
	if err == nil {
		return success, nil
	}
	if errors.Is(err, service.ErrCartNotPersisted) {
		return entity.NewNotice(entity.NoticeWarning, msgNotPersisted), nil
	}
	return nil, err
}

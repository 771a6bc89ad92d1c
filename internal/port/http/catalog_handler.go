package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/service"
	"github.com/go-chi/chi/v5"
)

// ListProducts serves the filtered listing. refresh=true drops the cached catalog first.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("refresh"); raw != "" {
		refresh, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, codeBadRequest, "refresh must be a boolean")
			return
		}
		if refresh {
			if err := h.catalog.Invalidate(r.Context()); err != nil {
				h.log.Warnf("Failed to invalidate catalog cache: %v", err)
			}
		}
	}

	products, notice := h.catalog.FetchProducts(r.Context())

	filters, err := parseFilters(r, products)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("q"))
	filtered := service.FilterProducts(products, search, filters)

	h.writeJSON(w, http.StatusOK, productListResponse{
		Products:     filtered,
		Shown:        len(filtered),
		Total:        len(products),
		Filters:      filters,
		Search:       search,
		PriceCeiling: entity.PriceCeiling(products),
		Notice:       notice,
	})
}

func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, notice := h.catalog.Featured(r.Context())
	h.writeJSON(w, http.StatusOK, featuredResponse{Products: products, Notice: notice})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.catalog.Product(r.Context(), id)
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, p)
	case errors.Is(err, service.ErrProductNotFound):
		h.writeError(w, http.StatusNotFound, codeNotFound, "product not found")
	case errors.Is(err, service.ErrCatalogUnavailable):
		h.writeError(w, http.StatusServiceUnavailable, codeCatalogUnavailable, service.MsgCatalogLoadFailed)
	default:
		h.log.Errorf("Failed to get product %s: %v", id, err)
		h.writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, notice := h.catalog.Categories(r.Context())
	h.writeJSON(w, http.StatusOK, categoriesResponse{Categories: categories, Notice: notice})
}

// parseFilters starts from the catalog defaults and applies whatever the query overrides.
// category may repeat or hold a comma separated list.
func parseFilters(r *http.Request, products []entity.Product) (entity.ProductFilters, error) {
	q := r.URL.Query()
	filters := entity.DefaultFilters(products)

	for _, raw := range q["category"] {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				filters.Categories = append(filters.Categories, c)
			}
		}
	}
	if v := q.Get("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return filters, errors.New("min_price must be a non-negative number")
		}
		filters.PriceMin = f
	}
	if v := q.Get("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return filters, errors.New("max_price must be a non-negative number")
		}
		filters.PriceMax = f
	}
	if v := q.Get("in_stock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filters, errors.New("in_stock must be a boolean")
		}
		filters.InStock = b
	}
	return filters, nil
}

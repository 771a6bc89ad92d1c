package http

import (
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
)

const shippingFree = "Free"

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type productListResponse struct {
	Products     []entity.Product      `json:"products"`
	Shown        int                   `json:"shown"`
	Total        int                   `json:"total"`
	Filters      entity.ProductFilters `json:"filters"`
	Search       string                `json:"search"`
	PriceCeiling float64               `json:"price_ceiling"`
	Notice       *entity.Notice        `json:"notice,omitempty"`
}

type featuredResponse struct {
	Products []entity.Product `json:"products"`
	Notice   *entity.Notice   `json:"notice,omitempty"`
}

type categoriesResponse struct {
	Categories []string       `json:"categories"`
	Notice     *entity.Notice `json:"notice,omitempty"`
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type cartLine struct {
	entity.CartItem
	Subtotal float64 `json:"subtotal"`
}

type cartView struct {
	Items      []cartLine `json:"items"`
	ItemsCount int        `json:"items_count"`
	Subtotal   float64    `json:"subtotal"`
	Shipping   string     `json:"shipping"`
	Total      float64    `json:"total"`
	Currency   string     `json:"currency"`
}

type cartResponse struct {
	Cart   cartView       `json:"cart"`
	Notice *entity.Notice `json:"notice,omitempty"`
}

func newCartView(cart *entity.Cart, currency string) cartView {
	lines := make([]cartLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, cartLine{CartItem: item, Subtotal: item.Subtotal()})
	}
	total := cart.Total()
	return cartView{
		Items:      lines,
		ItemsCount: cart.ItemsCount(),
		Subtotal:   total,
		Shipping:   shippingFree,
		Total:      total,
		Currency:   currency,
	}
}

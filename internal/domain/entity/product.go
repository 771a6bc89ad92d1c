package entity

import "strings"

const (
	// DefaultPriceMax is the upper bound of the price filter before the catalog is known.
	DefaultPriceMax = 50000.0

	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

type Product struct {
	ID          string  `json:"id" bson:"id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Category    string  `json:"category" bson:"category"`
	Stock       int     `json:"stock" bson:"stock"`
	ImageURL    string  `json:"imageUrl" bson:"imageUrl"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// Matches reports whether the lowercased search term occurs in the name or the description.
func (p Product) Matches(search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

type ProductFilters struct {
	Categories []string `json:"categories"`
	PriceMin   float64  `json:"price_min"`
	PriceMax   float64  `json:"price_max"`
	InStock    bool     `json:"in_stock"`
}

func (f ProductFilters) HasCategory(category string) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// DefaultFilters opens the price range up to the most expensive product, or DefaultPriceMax
// when the catalog is empty.
func DefaultFilters(products []Product) ProductFilters {
	priceMax := DefaultPriceMax
	if len(products) > 0 {
		priceMax = MaxPrice(products)
	}
	return ProductFilters{
		Categories: []string{},
		PriceMin:   0,
		PriceMax:   priceMax,
	}
}

func MaxPrice(products []Product) float64 {
	var max float64
	for _, p := range products {
		if p.Price > max {
			max = p.Price
		}
	}
	return max
}

// PriceCeiling is the upper end of the price slider.
func PriceCeiling(products []Product) float64 {
	if m := MaxPrice(products); m > DefaultPriceMax {
		return m
	}
	return DefaultPriceMax
}

// UniqueCategories returns the distinct non-empty categories in first-seen order.
func UniqueCategories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0)
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

func FindProduct(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Notice is a transient, user-facing message. It is never persisted.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func NewNotice(level, message string) *Notice {
	return &Notice{Level: level, Message: message}
}

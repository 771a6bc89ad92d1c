package service

import "github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"

// FilterProducts keeps the products matching every criterion, in catalog order:
// case-insensitive search over name and description, category membership (none selected
// means all), an inclusive price range and, optionally, availability.
func FilterProducts(products []entity.Product, search string, filters entity.ProductFilters) []entity.Product {
	result := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if !p.Matches(search) {
			continue
		}
		if !filters.HasCategory(p.Category) {
			continue
		}
		if p.Price < filters.PriceMin || p.Price > filters.PriceMax {
			continue
		}
		if filters.InStock && !p.InStock() {
			continue
		}
		result = append(result, p)
	}
	return result
}

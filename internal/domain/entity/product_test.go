package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueCategories(t *testing.T) {
	products := []Product{
		{ID: "1", Category: "Shirts"},
		{ID: "2", Category: "Pants"},
		{ID: "3", Category: "Shirts"},
		{ID: "4", Category: ""},
		{ID: "5", Category: "General"},
	}
	assert.Equal(t, []string{"Shirts", "Pants", "General"}, UniqueCategories(products))
	assert.Empty(t, UniqueCategories(nil))
}

func TestDefaultFilters(t *testing.T) {
	f := DefaultFilters(nil)
	assert.Equal(t, DefaultPriceMax, f.PriceMax)
	assert.Equal(t, 0.0, f.PriceMin)
	assert.False(t, f.InStock)
	assert.Empty(t, f.Categories)

	f = DefaultFilters([]Product{{Price: 120}, {Price: 80000}, {Price: 5}})
	assert.Equal(t, 80000.0, f.PriceMax)
}

func TestPriceCeiling(t *testing.T) {
	assert.Equal(t, DefaultPriceMax, PriceCeiling(nil))
	assert.Equal(t, DefaultPriceMax, PriceCeiling([]Product{{Price: 999}}))
	assert.Equal(t, 75000.0, PriceCeiling([]Product{{Price: 75000}}))
}

func TestProduct_Matches(t *testing.T) {
	p := Product{Name: "Linen Shirt", Description: "Breathable summer wear"}
	assert.True(t, p.Matches(""))
	assert.True(t, p.Matches("shirt"))
	assert.True(t, p.Matches("SUMMER"))
	assert.False(t, p.Matches("denim"))
}

func TestFindProduct(t *testing.T) {
	products := []Product{{ID: "product-1"}, {ID: "product-2"}}
	p, ok := FindProduct(products, "product-2")
	assert.True(t, ok)
	assert.Equal(t, "product-2", p.ID)

	_, ok = FindProduct(products, "product-3")
	assert.False(t, ok)
}

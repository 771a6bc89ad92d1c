package entity

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id string, price float64) Product {
	return Product{ID: id, Name: "Name " + id, Price: price, Category: "General", Stock: 5, ImageURL: "/placeholder.svg"}
}

func TestCart_AddItem_MergesSameProduct(t *testing.T) {
	c := NewCart()
	p := testProduct("product-1", 100)

	c.AddItem(p, 2)
	c.AddItem(p, 3)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestCart_AddItem_ClampsQuantity(t *testing.T) {
	c := NewCart()
	c.AddItem(testProduct("product-1", 10), 0)
	c.AddItem(testProduct("product-2", 10), -4)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[1].Quantity)
}

func TestCart_AddItem_MergeSaturates(t *testing.T) {
	c := NewCart()
	p := testProduct("product-1", 2)

	c.AddItem(p, math.MaxInt)
	c.AddItem(p, 1)

	require.Len(t, c.Items, 1)
	assert.Equal(t, math.MaxInt, c.Items[0].Quantity)
	assert.Equal(t, math.MaxInt, c.ItemsCount())
	assert.Positive(t, c.Total())
}

func TestCart_ItemsCount_Saturates(t *testing.T) {
	c := NewCart()
	c.AddItem(testProduct("product-1", 1), math.MaxInt)
	c.AddItem(testProduct("product-2", 1), math.MaxInt)

	assert.Equal(t, math.MaxInt, c.ItemsCount())
}

func TestCart_AddItem_KeepsInsertionOrder(t *testing.T) {
	c := NewCart()
	c.AddItem(testProduct("product-3", 1), 1)
	c.AddItem(testProduct("product-1", 1), 1)
	c.AddItem(testProduct("product-3", 1), 1)

	require.Len(t, c.Items, 2)
	assert.Equal(t, "product-3", c.Items[0].ID)
	assert.Equal(t, "product-1", c.Items[1].ID)
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	c := NewCart()
	c.AddItem(testProduct("product-1", 10), 1)

	c.UpdateItemQuantity("product-1", 7)
	assert.Equal(t, 7, c.Items[0].Quantity)

	c.UpdateItemQuantity("missing", 3)
	assert.Len(t, c.Items, 1)

	c.UpdateItemQuantity("product-1", 0)
	assert.True(t, c.IsEmpty())
}

func TestCart_UpdateToZeroEqualsRemove(t *testing.T) {
	a := NewCart()
	b := NewCart()
	for _, c := range []*Cart{a, b} {
		c.AddItem(testProduct("product-1", 10), 2)
		c.AddItem(testProduct("product-2", 20), 1)
	}

	a.UpdateItemQuantity("product-1", 0)
	b.RemoveItem("product-1")

	assert.Equal(t, b.Items, a.Items)
}

func TestCart_RemoveItem_Missing(t *testing.T) {
	c := NewCart()
	c.AddItem(testProduct("product-1", 10), 1)
	c.RemoveItem("product-9")
	assert.Len(t, c.Items, 1)
}

func TestCart_TotalAndCount(t *testing.T) {
	c := NewCart()
	assert.Equal(t, 0.0, c.Total())
	assert.Equal(t, 0, c.ItemsCount())

	c.AddItem(testProduct("A", 100), 2)
	c.AddItem(testProduct("B", 50), 1)

	assert.Equal(t, 250.0, c.Total())
	assert.Equal(t, 3, c.ItemsCount())
}

func TestCart_Clear(t *testing.T) {
	c := NewCart()
	c.AddItem(testProduct("A", 100), 2)
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.NotNil(t, c.Items)
}

func TestRestoreCart_Sanitizes(t *testing.T) {
	items := []CartItem{
		{Product: testProduct("A", 10), Quantity: 1},
		{Product: testProduct("B", 10), Quantity: 0},
		{Product: testProduct("A", 10), Quantity: 2},
		{Product: testProduct("C", 10), Quantity: -1},
	}
	c := RestoreCart(items)

	require.Len(t, c.Items, 1)
	assert.Equal(t, "A", c.Items[0].ID)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestCartItem_JSONIsFlat(t *testing.T) {
	item := CartItem{Product: testProduct("product-1", 12.5), Quantity: 2}

	data, err := json.Marshal([]CartItem{item})
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "product-1", raw[0]["id"])
	assert.Equal(t, "/placeholder.svg", raw[0]["imageUrl"])
	assert.Equal(t, 2.0, raw[0]["quantity"])
	_, nested := raw[0]["Product"]
	assert.False(t, nested)

	var back []CartItem
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []CartItem{item}, back)
}

func TestCart_SnapshotIsCopy(t *testing.T) {
	c := NewCart()
	c.AddItem(testProduct("A", 1), 1)
	snap := c.Snapshot()
	snap[0].Quantity = 99
	assert.Equal(t, 1, c.Items[0].Quantity)
}

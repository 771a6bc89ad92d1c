package entity

import "math"

// MaxLineQuantity bounds a single quantity accepted from a client.
const MaxLineQuantity = 1_000_000

// CartItem is a product snapshot plus the ordered quantity. Product fields are flattened
// so the persisted payload is a plain array of product objects with a quantity.
type CartItem struct {
	Product  `bson:",inline"`
	Quantity int `json:"quantity" bson:"quantity"`
}

func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

type Cart struct {
	Items []CartItem `json:"items"`
}

func NewCart() *Cart {
	return &Cart{Items: make([]CartItem, 0)}
}

// RestoreCart rebuilds a cart from persisted items. Lines with a non-positive quantity are
// dropped and duplicate product ids are merged into the first occurrence.
func RestoreCart(items []CartItem) *Cart {
	c := NewCart()
	for _, item := range items {
		if item.Quantity <= 0 || item.ID == "" {
			continue
		}
		if existing, _ := c.GetItem(item.ID); existing != nil {
			existing.Quantity = addQuantity(existing.Quantity, item.Quantity)
			continue
		}
		c.Items = append(c.Items, item)
	}
	return c
}

// addQuantity adds two positive quantities, saturating at math.MaxInt.
func addQuantity(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func (c *Cart) GetItem(productID string) (*CartItem, int) {
	for i, item := range c.Items {
		if item.ID == productID {
			return &c.Items[i], i
		}
	}
	return nil, -1
}

// AddItem merges into an existing line or appends a new one. Quantities below 1 count as 1.
// A merged quantity saturates at math.MaxInt.
func (c *Cart) AddItem(product Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if item, _ := c.GetItem(product.ID); item != nil {
		item.Quantity = addQuantity(item.Quantity, quantity)
		return
	}
	c.Items = append(c.Items, CartItem{Product: product, Quantity: quantity})
}

// UpdateItemQuantity sets an absolute quantity; zero or less removes the line.
// Unknown ids are ignored.
func (c *Cart) UpdateItemQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if item, _ := c.GetItem(productID); item != nil {
		item.Quantity = quantity
	}
}

func (c *Cart) RemoveItem(productID string) {
	if _, index := c.GetItem(productID); index >= 0 {
		c.Items = append(c.Items[:index], c.Items[index+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
}

func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemsCount sums the line quantities, saturating at math.MaxInt.
func (c *Cart) ItemsCount() int {
	var count int
	for _, item := range c.Items {
		count = addQuantity(count, item.Quantity)
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Snapshot returns a copy of the items that callers may keep.
func (c *Cart) Snapshot() []CartItem {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return items
}

package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const orderGreeting = "Hello, I would like to place an order for the following item:\n\n"

type OrderItem struct {
	ProductID    string  `json:"product_id" bson:"product_id"`
	ProductName  string  `json:"product_name" bson:"product_name"`
	Quantity     int     `json:"quantity" bson:"quantity"`
	PricePerUnit float64 `json:"price_per_unit" bson:"price_per_unit"`
	TotalPrice   float64 `json:"total_price" bson:"total_price"`
}

// OrderSummary is what leaves the storefront at checkout: the lines, the total and the
// human readable message sent to the shop.
type OrderSummary struct {
	Reference   string      `json:"reference"`
	Items       []OrderItem `json:"items"`
	ItemsCount  int         `json:"items_count"`
	TotalAmount float64     `json:"total_amount"`
	Currency    string      `json:"currency"`
	Message     string      `json:"message"`
	CreatedAt   time.Time   `json:"created_at"`
}

func NewOrderSummary(reference string, items []CartItem, currency string) *OrderSummary {
	summary := &OrderSummary{
		Reference: reference,
		Items:     make([]OrderItem, 0, len(items)),
		Currency:  currency,
		CreatedAt: time.Now().UTC(),
	}
	for _, item := range items {
		summary.Items = append(summary.Items, OrderItem{
			ProductID:    item.ID,
			ProductName:  item.Name,
			Quantity:     item.Quantity,
			PricePerUnit: item.Price,
			TotalPrice:   item.Subtotal(),
		})
		summary.ItemsCount += item.Quantity
		summary.TotalAmount += item.Subtotal()
	}
	summary.Message = BuildOrderMessage(items, currency)
	return summary
}

// BuildOrderMessage renders the numbered order list the shop receives.
func BuildOrderMessage(items []CartItem, currency string) string {
	var b strings.Builder
	b.WriteString(orderGreeting)
	var total float64
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s * %d\n", i+1, item.Name, item.Quantity)
		total += item.Subtotal()
	}
	fmt.Fprintf(&b, "\nTotal: %s%s", currency, FormatAmount(total))
	return b.String()
}

// FormatAmount groups the integer part by thousands and keeps at most three fraction
// digits, trailing zeros trimmed: 1234567.5 -> "1,234,567.5".
func FormatAmount(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	s := strconv.FormatFloat(amount, 'f', 3, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	fracPart = strings.TrimRight(fracPart, "0")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

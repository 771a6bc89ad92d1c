package email

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
)

const defaultSendTimeout = 10 * time.Second

// CheckoutNotifier mails every handed-off order to the shop inbox.
type CheckoutNotifier struct {
	sender    EmailSender
	shopEmail string
	timeout   time.Duration
}

func NewCheckoutNotifier(sender EmailSender, shopEmail string, timeout time.Duration) (*CheckoutNotifier, error) {
	if shopEmail == "" {
		return nil, fmt.Errorf("shop email must be configured for checkout notifications")
	}
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &CheckoutNotifier{sender: sender, shopEmail: shopEmail, timeout: timeout}, nil
}

func (n *CheckoutNotifier) NotifyCheckout(ctx context.Context, summary *entity.OrderSummary) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	subject := fmt.Sprintf("New storefront order %s (%s%s)", summary.Reference, summary.Currency, entity.FormatAmount(summary.TotalAmount))
	return n.sender.Send(ctx, []string{n.shopEmail}, subject, renderHTML(summary), summary.Message)
}

func renderHTML(summary *entity.OrderSummary) string {
	var b strings.Builder
	b.WriteString("<h2>New order</h2>\n<table>\n<tr><th>#</th><th>Product</th><th>Qty</th><th>Subtotal</th></tr>\n")
	for i, item := range summary.Items {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%d</td><td>%s%s</td></tr>\n",
			i+1,
			html.EscapeString(item.ProductName),
			item.Quantity,
			html.EscapeString(summary.Currency),
			entity.FormatAmount(item.TotalPrice),
		)
	}
	fmt.Fprintf(&b, "</table>\n<p><strong>Total: %s%s</strong></p>\n<p>Reference: %s</p>\n",
		html.EscapeString(summary.Currency),
		entity.FormatAmount(summary.TotalAmount),
		html.EscapeString(summary.Reference),
	)
	return b.String()
}

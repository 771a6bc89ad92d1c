package nats

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
)

const defaultCheckoutSubject = "storefront.checkout.handed_off"

// CheckoutEvent is published once per completed hand-off.
type CheckoutEvent struct {
	Reference   string             `json:"reference"`
	Items       []entity.OrderItem `json:"items"`
	ItemsCount  int                `json:"items_count"`
	TotalAmount float64            `json:"total_amount"`
	Currency    string             `json:"currency"`
	Message     string             `json:"message"`
	HandedOffAt time.Time          `json:"handed_off_at"`
}

type CheckoutNotifier struct {
	publisher *Publisher
	subject   string
}

func NewCheckoutNotifier(publisher *Publisher, subject string) *CheckoutNotifier {
	if subject == "" {
		subject = defaultCheckoutSubject
	}
	return &CheckoutNotifier{publisher: publisher, subject: subject}
}

func (n *CheckoutNotifier) NotifyCheckout(ctx context.Context, summary *entity.OrderSummary) error {
	return n.publisher.Publish(ctx, n.subject, CheckoutEvent{
		Reference:   summary.Reference,
		Items:       summary.Items,
		ItemsCount:  summary.ItemsCount,
		TotalAmount: summary.TotalAmount,
		Currency:    summary.Currency,
		Message:     summary.Message,
		HandedOffAt: summary.CreatedAt,
	})
}

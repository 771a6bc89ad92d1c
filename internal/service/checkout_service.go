package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/metrics"
	"github.com/google/uuid"
)

const defaultCurrency = "₹"

// HandOff turns an order summary into the external link the shopper is sent to.
type HandOff interface {
	HandOff(ctx context.Context, summary *entity.OrderSummary) (string, error)
}

// CheckoutNotifier is told about every completed hand-off. Failures are logged only.
type CheckoutNotifier interface {
	NotifyCheckout(ctx context.Context, summary *entity.OrderSummary) error
}

type CheckoutResult struct {
	Summary     *entity.OrderSummary `json:"summary"`
	RedirectURL string               `json:"redirect_url"`
	Notice      *entity.Notice       `json:"notice,omitempty"`
}

type CheckoutServiceConfig struct {
	Currency string
}

type CheckoutService struct {
	cart      *CartStore
	handOff   HandOff
	notifiers []CheckoutNotifier
	currency  string
	log       logger.Logger
	metrics   *metrics.MetricsManager
}

func NewCheckoutService(
	cart *CartStore,
	handOff HandOff,
	log logger.Logger,
	m *metrics.MetricsManager,
	cfg CheckoutServiceConfig,
	notifiers ...CheckoutNotifier,
) *CheckoutService {
	currency := cfg.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &CheckoutService{
		cart:      cart,
		handOff:   handOff,
		notifiers: notifiers,
		currency:  currency,
		log:       log,
		metrics:   m,
	}
}

// Checkout builds the order summary from the cart, hands it off and clears the cart
// whatever the hand-off outcome. An empty cart is refused with ErrEmptyCart and left as
// is. When only the clearing write fails the result is still returned alongside an error
// wrapping ErrCartNotPersisted.
func (s *CheckoutService) Checkout(ctx context.Context) (*CheckoutResult, error) {
	var (
		summary    *entity.OrderSummary
		link       string
		handOffErr error
	)
	err := s.cart.Checkout(ctx, func(items []entity.CartItem) error {
		summary = entity.NewOrderSummary(uuid.NewString(), items, s.currency)
		link, handOffErr = s.handOff.HandOff(ctx, summary)
		return handOffErr
	})
	if errors.Is(err, ErrEmptyCart) {
		s.log.Infof("Checkout refused: cart is empty")
		s.metrics.Checkout(metrics.ResultFailure)
		return nil, ErrEmptyCart
	}
	if handOffErr != nil {
		s.log.Errorf("Checkout hand-off failed for order %s: %v", summary.Reference, handOffErr)
		s.metrics.Checkout(metrics.ResultFailure)
		return nil, fmt.Errorf("checkout hand-off failed: %w", handOffErr)
	}

	s.metrics.Checkout(metrics.ResultSuccess)
	s.log.Infof("Checkout handed off: order %s, %d units, total %.2f", summary.Reference, summary.ItemsCount, summary.TotalAmount)
	s.notify(ctx, summary)

	result := &CheckoutResult{Summary: summary, RedirectURL: link}
	if err != nil {
		result.Notice = entity.NewNotice(entity.NoticeWarning, "Order sent, but the cart could not be saved")
		return result, err
	}
	return result, nil
}

func (s *CheckoutService) notify(ctx context.Context, summary *entity.OrderSummary) {
	for _, n := range s.notifiers {
		if err := n.NotifyCheckout(ctx, summary); err != nil {
			s.log.Warnf("Checkout notifier failed for order %s: %v", summary.Reference, err)
		}
	}
}

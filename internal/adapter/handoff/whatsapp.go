package handoff

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
)

const defaultBaseURL = "https://wa.me"

// WhatsApp builds click-to-chat links carrying the order message. Opening the link is up
// to the client.
type WhatsApp struct {
	baseURL string
	phone   string
}

func NewWhatsApp(cfg config.CheckoutConfig) (*WhatsApp, error) {
	phone := strings.TrimPrefix(strings.TrimSpace(cfg.PhoneNumber), "+")
	if phone == "" {
		return nil, errors.New("whatsapp phone number must not be empty")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, err
	}
	return &WhatsApp{baseURL: base, phone: phone}, nil
}

func (w *WhatsApp) HandOff(_ context.Context, summary *entity.OrderSummary) (string, error) {
	if summary == nil {
		return "", errors.New("nothing to hand off")
	}
	return w.Link(summary.Message), nil
}

// Link returns <base>/<phone>?text=<message> with the message percent-encoded the way
// browsers' encodeURIComponent does it.
func (w *WhatsApp) Link(message string) string {
	return w.baseURL + "/" + w.phone + "?text=" + EncodeURIComponent(message)
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func EncodeURIComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

package payment

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("payment provider not configured")

// LineItem describes one cart line for the external payment page. Unit
// amounts are minor units, same as everywhere else.
type LineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   uint   `json:"quantity"`
}

// Provider creates an external payment session for an already persisted
// order and returns the URL the client should be redirected to. A failing
// provider never undoes the order; callers fall back to plain completion.
type Provider interface {
	CreateSession(ctx context.Context, orderID uint, items []LineItem) (redirectURL string, err error)
}

// None is the default provider when no gateway is configured; checkout
// treats its error as the ordinary non-redirect path.
type None struct{}

func (None) CreateSession(ctx context.Context, orderID uint, items []LineItem) (string, error) {
	return "", ErrNotConfigured
}

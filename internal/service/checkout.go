package service

import (
	"context"
	"errors"
	"time"

	"github.com/finobags/shop/internal/logging"
	"github.com/finobags/shop/internal/models"
	"github.com/finobags/shop/internal/payment"
	"github.com/finobags/shop/internal/repo"
	"github.com/finobags/shop/internal/session"
)

type CheckoutService struct {
	Repo           *repo.GormRepo
	Provider       payment.Provider
	PaymentTimeout time.Duration
}

// CheckoutResult carries either a redirect to the external payment page or
// the id of the completed order.
type CheckoutResult struct {
	OrderID     uint
	Total       int64
	RedirectURL string
}

// Checkout converts the session cart into a persisted order.
//
// Cart entries whose product id resolves to nothing are silently excluded
// from pricing; the order row is the point of no return and the cart is
// cleared as soon as it lands, whatever the payment handoff does afterwards.
func (s *CheckoutService) Checkout(ctx context.Context, sess *session.Session) (*CheckoutResult, error) {
	if sess == nil || sess.UserID() == 0 {
		return nil, ErrAuthRequired
	}

	entries := sess.Items()
	if len(entries) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]int, 0, len(entries))
	qty := make(map[int]uint, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
		qty[e.ProductID] = e.Quantity
	}

	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var total int64
	items := make([]models.OrderItem, 0, len(products))
	lines := make([]payment.LineItem, 0, len(products))
	for _, p := range products {
		q := qty[p.ID]
		total += p.Price * int64(q)
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Quantity:  q,
			UnitPrice: p.Price,
		})
		lines = append(lines, payment.LineItem{
			Name:       p.Name,
			UnitAmount: p.Price,
			Quantity:   q,
		})
	}

	order := &models.Order{
		UserID:    sess.UserID(),
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.CreateOrder(ctx, order, items); err != nil {
		return nil, err
	}

	sess.ClearCart()

	result := &CheckoutResult{OrderID: order.ID, Total: order.Total}

	payCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout())
	defer cancel()
	url, payErr := s.Provider.CreateSession(payCtx, order.ID, lines)
	switch {
	case payErr == nil:
		result.RedirectURL = url
	case errors.Is(payErr, payment.ErrNotConfigured):
		// plain completion, nothing to report
	default:
		logging.FromContext(ctx).Warn("payment handoff failed, completing without redirect",
			"order_id", order.ID, "error", payErr)
	}

	return result, nil
}

func (s *CheckoutService) paymentTimeout() time.Duration {
	if s.PaymentTimeout <= 0 {
		return 5 * time.Second
	}
	return s.PaymentTimeout
}

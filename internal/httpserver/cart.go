package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/finobags/shop/internal/logging"
	"github.com/finobags/shop/internal/middleware/sessionmw"
	"github.com/finobags/shop/internal/models"
	"github.com/finobags/shop/internal/mykafka"
	"github.com/finobags/shop/internal/repo"
	"github.com/finobags/shop/internal/service"
)

type CartHTTP struct {
	Repo     *repo.GormRepo
	Svc      *service.CheckoutService
	Producer *mykafka.Producer
}

type cartLine struct {
	Product  models.Product `json:"product"`
	Quantity uint           `json:"quantity"`
}

// GetCart joins session cart entries with current catalog rows. Entries
// whose product no longer exists are dropped from the view, not from the
// cart.
func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	sess := sessionmw.FromContext(c)
	entries := sess.Items()

	lines := make([]cartLine, 0, len(entries))
	if len(entries) > 0 {
		ids := make([]int, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ProductID)
		}
		products, err := h.Repo.ProductsByIDs(ctx, ids)
		if err != nil {
			l.Error("get_cart_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}

		byID := make(map[int]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		for _, e := range entries {
			if p, ok := byID[e.ProductID]; ok {
				lines = append(lines, cartLine{Product: p, Quantity: e.Quantity})
			}
		}
	}

	return c.JSON(http.StatusOK, lines)
}

// AddToCart bumps the quantity for the given product id by one. The id is
// not checked against the catalog; a bogus id just never joins to anything.
func (h *CartHTTP) AddToCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.add")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	sess := sessionmw.FromContext(c)
	sess.AddItem(id)

	publish(c, h.Producer, "cart_events", sess.ID(), map[string]any{
		"type":       "cart_item_added",
		"session_id": sess.ID(),
		"product_id": id,
	})

	l.Info("item added to cart", "product_id", id)
	return c.JSON(http.StatusOK, sess.Items())
}

// Checkout turns the session cart into a persisted order and either
// redirects to the payment page or reports the order id.
func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	sess := sessionmw.FromContext(c)

	result, err := h.Svc.Checkout(ctx, sess)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthRequired):
			l.Warn("checkout_error", "status", 401)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
		case errors.Is(err, service.ErrEmptyCart):
			l.Warn("checkout_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
		default:
			l.Error("checkout_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(result.OrderID), map[string]any{
		"type":     "order_created",
		"order_id": result.OrderID,
		"user_id":  sess.UserID(),
		"total":    result.Total,
	})

	if result.RedirectURL != "" {
		l.Info("checkout redirecting to payment", "order_id", result.OrderID)
		return c.JSON(http.StatusOK, echo.Map{"url": result.RedirectURL})
	}

	l.Info("checkout completed", "order_id", result.OrderID, "total", result.Total)
	return c.JSON(http.StatusOK, echo.Map{"order_id": result.OrderID, "total": result.Total})
}
